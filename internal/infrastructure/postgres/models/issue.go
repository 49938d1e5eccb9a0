package models

import "time"

type IssueModel struct {
	ID                 string `gorm:"primaryKey"`
	Code               string `gorm:"uniqueIndex"`
	CreatedBy          string
	OtherPartyID       string
	AdvertisementID    string
	IssueType          string
	Description        string
	Status             string
	Deadline           time.Time
	AcceptedAt         *time.Time
	RejectedAt         *time.Time
	EscalatedAt        *time.Time
	ExpiredAt          *time.Time
	RejectionReason    string
	EscalatedDisputeID *string
	CreatedAt          time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime:false"`
}

func (IssueModel) TableName() string { return "issues" }

type IssueMessageModel struct {
	ID          string `gorm:"primaryKey"`
	IssueID     string
	SenderID    *string
	MessageType string
	Body        string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
}

func (IssueMessageModel) TableName() string { return "issue_messages" }
