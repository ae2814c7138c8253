package gate

// Action describes the kind of operation a role wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionList   Action = "list"

	// Workflow actions.
	ActionAdvance  Action = "advance"
	ActionCancel   Action = "cancel"
	ActionPay      Action = "pay"
	ActionAssign   Action = "assign"
	ActionDispatch Action = "dispatch"
	ActionDeliver  Action = "deliver"
	ActionAdjust   Action = "adjust"
	ActionReset    Action = "reset"
)

// Resource names used in permissions.
const (
	ResourceOrder      = "order"
	ResourceDesignTask = "design_task"
	ResourceShipment   = "shipment"
	ResourceInventory  = "inventory"
	ResourceCustomer   = "customer"
	ResourceInvoice    = "invoice"
	ResourceDashboard  = "dashboard"
	ResourceSystem     = "system"
)
