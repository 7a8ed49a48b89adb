package models

// Invitation code status values. Monotonic: once used, never reverts.
const (
	StatusUnused = 0
	StatusUsed   = 1
)

// InvitationCode matches the Worker D1 table invitation_code.
type InvitationCode struct {
	ID         uint   `gorm:"column:id;primaryKey" json:"id"`
	Code       string `gorm:"column:code;uniqueIndex;not null" json:"code"`
	CreateTime int64  `gorm:"column:create_time;not null" json:"createTime"`
	UpdateTime int64  `gorm:"column:update_time;not null" json:"updateTime"`
	Status     int    `gorm:"column:status;not null;default:0" json:"status"`
	Email      string `gorm:"column:email;not null;default:''" json:"email"`
}

// TableName overrides table name to invitation_code (Worker schema).
func (InvitationCode) TableName() string {
	return "invitation_code"
}
