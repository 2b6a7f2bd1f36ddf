package task

import "github.com/josephgoksu/TaskNest/models"

// nextTaskID returns 1 + the largest task id, with a floor of 0.
func nextTaskID(tasks []models.Task) int {
	highest := 0
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

// nextSubtaskID returns 1 + the largest subtask id of t. An empty list is
// seeded from t.ID*10, so task 5 gets 51 first.
func nextSubtaskID(t models.Task) int {
	highest := t.ID * 10
	for _, s := range t.Subtasks {
		if s.ID > highest {
			highest = s.ID
		}
	}
	return highest + 1
}
