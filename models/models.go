package models

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Job{},
		&Objective{},
		&Part{},
		&PartRequest{},
		&Notification{},
		&FinalizationRequest{},
	}
}
