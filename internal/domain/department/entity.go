package department

import "time"

type Department struct {
	ID        string
	Name      string
	ParentID  *string
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
