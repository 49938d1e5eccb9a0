package models

// ReferenceCounterModel holds the last number handed out per code kind.
type ReferenceCounterModel struct {
	Kind      string `gorm:"primaryKey"`
	LastValue int64
}

func (ReferenceCounterModel) TableName() string { return "reference_counters" }
