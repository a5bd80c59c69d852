package sqlite

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// userRecord is the GORM model for the users table.
type userRecord struct {
	ID        string    `gorm:"primarykey;size:36"`
	Username  string    `gorm:"size:30;not null;uniqueIndex:idx_users_username"`
	FirstName string    `gorm:"size:50;not null"`
	LastName  string    `gorm:"size:50;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for userRecord.
func (userRecord) TableName() string {
	return "users"
}

// taskRecord is the GORM model for the tasks table.
// Rows are listed in rowid order, which follows insertion.
type taskRecord struct {
	ID            string      `gorm:"primarykey;size:36"`
	UserID        string      `gorm:"size:36;not null;index"`
	User          *userRecord `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Name          string      `gorm:"size:100;not null"`
	Description   string      `gorm:"not null"`
	ScheduledTime time.Time   `gorm:"not null;index"`
	Status        string      `gorm:"size:20;not null;default:pending;check:chk_tasks_status,status IN ('pending','in_progress','done')"`
	CreatedAt     time.Time   `gorm:"not null"`
	UpdatedAt     time.Time   `gorm:"not null"`
}

// TableName returns the table name for taskRecord.
func (taskRecord) TableName() string {
	return "tasks"
}

func newUserRecord(u *domain.User) *userRecord {
	return &userRecord{
		ID:        u.ID.String(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func (r *userRecord) toDomain() (*domain.User, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		ID:        id,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}, nil
}

func newTaskRecord(t *domain.Task) *taskRecord {
	return &taskRecord{
		ID:            t.ID.String(),
		UserID:        t.UserID.String(),
		Name:          t.Name,
		Description:   t.Description,
		ScheduledTime: t.ScheduledTime.UTC(),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt.UTC(),
		UpdatedAt:     t.UpdatedAt.UTC(),
	}
}

func (r *taskRecord) toDomain() (*domain.Task, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID(r.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.Task{
		ID:            id,
		UserID:        userID,
		Name:          r.Name,
		Description:   r.Description,
		ScheduledTime: r.ScheduledTime.UTC(),
		Status:        domain.TaskStatus(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}, nil
}

func tasksToDomain(records []taskRecord) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0, len(records))
	for i := range records {
		task, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
