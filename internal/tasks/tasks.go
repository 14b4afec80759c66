package tasks

import "github.com/hibiken/asynq"

// TypeRoomsAdvance is the periodic sweep that reconciles room statuses with
// the clock. It carries no payload; the handler reads ground truth from the
// database.
const TypeRoomsAdvance = "rooms:advance"

func NewRoomsAdvanceTask() *asynq.Task {
	return asynq.NewTask(TypeRoomsAdvance, nil)
}
