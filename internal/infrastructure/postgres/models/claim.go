package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimModel struct {
	ID                      string `gorm:"primaryKey"`
	Code                    string `gorm:"uniqueIndex"`
	DisputeID               string `gorm:"uniqueIndex"`
	UserID                  string
	SellerID                string
	AdvertisementID         string
	ClaimReason             string
	BuyerAdditionalEvidence string
	ResolutionMode          string
	AdminID                 *string
	AdminDecision           *string
	AdminNotes              string
	ResolutionAmount        decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	BuyerAnswer             *string
	SellerAnswer            *string
	WinnerID                *string
	Status                  string
	Priority                string
	Deadline                time.Time
	AssignedAt              *time.Time
	ResolvedAt              *time.Time
	ClosedAt                *time.Time
	CreatedAt               time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime:false"`
}

func (ClaimModel) TableName() string { return "claims" }

type ClaimMessageModel struct {
	ID          string `gorm:"primaryKey"`
	ClaimID     string
	SenderID    *string
	MessageType string
	Body        string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
}

func (ClaimMessageModel) TableName() string { return "claim_messages" }

type ClaimEvidenceModel struct {
	ID          string `gorm:"primaryKey"`
	ClaimID     string
	FileType    string
	FilePath    string
	FileName    string
	FileSize    int64
	Description string
	UploadedBy  string
	UploadedAt  time.Time
}

func (ClaimEvidenceModel) TableName() string { return "claim_evidence" }
