package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Role{},
		&Department{},
		&User{},
		&Tenant{},
		&Area{},
		&FeedbackComplain{},
		&JobSlip{},
		&JanitorialReport{},
		&SubJanReport{},
		&NotificationTemplate{},
		&Notification{},
	}
}
