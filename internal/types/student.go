package types

// Student represents a student record in our system.
//
// The gorm tags describe the students table for the ORM-backed storage;
// the plain database/sql storage creates the same table by hand.
// The phone rule is registered at start-up because its country code
// comes from configuration.
type Student struct {
	ID      int64  `json:"id"      gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name"    gorm:"not null" validate:"required"`
	Email   string `json:"email"   gorm:"not null" validate:"required,email"`
	Phone   string `json:"phone"   gorm:"not null" validate:"required,phone"`
	DoB     string `json:"DoB"     gorm:"column:dob;not null" validate:"required,dob"`
	Gender  string `json:"gender"  gorm:"not null" validate:"required,oneof=Male Female Other"`
	Course  string `json:"course"  gorm:"not null" validate:"required"`
	College string `json:"college" gorm:"not null" validate:"required"`
}

// TableName pins the table name for gorm.
func (Student) TableName() string {
	return "students"
}
