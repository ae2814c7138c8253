package services

import (
	"context"
	"testing"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDesignOrder(t *testing.T, env *testEnv) string {
	t.Helper()
	o, err := env.orders.CreateOrder(context.Background(), OrderInput{
		Customer: "Deepa Boutique",
		Items:    []LineItemInput{{ProductID: "INV004", Quantity: 1}},
	})
	require.NoError(t, err)
	return models.DesignTaskID(o.ID)
}

func TestAssignDesigner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	taskID := newDesignOrder(t, env)

	task, err := env.design.AssignDesigner(ctx, taskID, " Ravi ")
	require.NoError(t, err)
	assert.Equal(t, models.DesignTaskInProgress, task.Status)
	assert.Equal(t, "Ravi", *task.AssignedDesigner)

	_, err = env.design.AssignDesigner(ctx, taskID, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["designer"])

	_, err = env.design.AssignDesigner(ctx, "DT-NOPE", "Ravi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDesignStatus_CompletedAdvancesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, tr, err := env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{
		Status: models.DesignTaskCompleted,
		Notes:  "Proof approved by customer",
	}, "designer")
	require.NoError(t, err)
	assert.Equal(t, models.DesignTaskCompleted, task.Status)
	assert.Equal(t, "Proof approved by customer", task.CompletionNotes)
	require.NotNil(t, tr)
	assert.Equal(t, "Design completed, order is ready for shipping", tr.Message)

	snap := env.snapshot(t)
	assert.Equal(t, models.OrderStatusReady, snap.Order("ORD-1001").Status)
	rec := snap.Progression["ORD-1001"]
	require.NotNil(t, rec.DesignCompleteTime)
	assert.True(t, rec.DesignCompleteTime.Equal(testNow))
	assert.NotNil(t, snap.Shipment("SHP-ORD-1001"), "ready order gets a shipment")
	assert.Equal(t, models.DesignTaskCompleted, snap.DesignTask("DT-ORD-1001").Status)
}

func TestDesignStatus_CompletedTaskIsFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, err := env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{Status: models.DesignTaskCompleted}, "designer")
	require.NoError(t, err)

	var illegal *IllegalTransitionError
	_, _, err = env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{Status: models.DesignTaskInProgress}, "designer")
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "completed", illegal.From)

	_, err = env.design.AssignDesigner(ctx, "DT-ORD-1001", "Someone")
	assert.ErrorAs(t, err, &illegal)
}

func TestDesignStatus_CompletedFailsWhenOrderLeftDesign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.orders.AdvanceStatus(ctx, "ORD-1001", models.OrderStatusCancelled, "admin")
	require.NoError(t, err)

	_, _, err = env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{Status: models.DesignTaskCompleted}, "designer")
	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "cancelled", illegal.From)
	assert.Equal(t, models.DesignTaskInProgress, env.snapshot(t).DesignTask("DT-ORD-1001").Status, "task not written")
}

func TestDesignStatus_PartialRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{Status: models.DesignTaskPartiallyCompleted}, "designer")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["reason"])

	task, tr, err := env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{
		Status: models.DesignTaskPartiallyCompleted,
		Reason: "Waiting on logo files",
	}, "designer")
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Equal(t, "Waiting on logo files", task.PartialReason)
	assert.Equal(t, models.OrderStatusDesign, env.snapshot(t).Order("ORD-1001").Status)
}

func TestDesignStatus_InvalidTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{Status: "approved"}, "designer")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, _, err = env.design.UpdateStatus(ctx, "DT-ORD-1001", DesignStatusInput{Status: models.DesignTaskNotAssigned}, "designer")
	var illegal *IllegalTransitionError
	assert.ErrorAs(t, err, &illegal)
}

func TestDesignList(t *testing.T) {
	env := newTestEnv(t)
	newDesignOrder(t, env)

	all, err := env.design.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := env.design.List(context.Background(), models.DesignTaskNotAssigned)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
