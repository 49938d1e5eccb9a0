package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DisputeModel struct {
	ID                  string `gorm:"primaryKey"`
	Code                string `gorm:"uniqueIndex"`
	UserID              string
	SellerID            string
	AdvertisementID     string
	IssueID             *string
	DisputeType         string
	Category            string
	ProblemDescription  string
	Status              string
	ResolutionStatus    *string
	Priority            string
	Phase               string
	NegotiationDeadline *time.Time
	DisputeDeadline     *time.Time
	ClaimDeadline       *time.Time
	ResolutionDeadline  *time.Time
	SellerResponse      string
	SellerDecision      *string
	SellerRespondedAt   *time.Time
	ClosedAt            *time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime:false"`
}

func (DisputeModel) TableName() string { return "disputes" }

type DisputeMessageModel struct {
	ID          string `gorm:"primaryKey"`
	DisputeID   string
	SenderID    *string
	MessageType string
	Body        string
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
}

func (DisputeMessageModel) TableName() string { return "dispute_messages" }

type DisputeEvidenceModel struct {
	ID          string `gorm:"primaryKey"`
	DisputeID   string
	FileType    string
	FilePath    string
	FileName    string
	FileSize    int64
	Description string
	UploadedBy  string
	UploadedAt  time.Time
}

func (DisputeEvidenceModel) TableName() string { return "dispute_evidence" }

type EligibilityCheckModel struct {
	ID        string `gorm:"primaryKey"`
	DisputeID string
	CheckName string
	Passed    bool
	Reason    string
	CheckedAt time.Time
}

func (EligibilityCheckModel) TableName() string { return "dispute_eligibility_checks" }

type DisputeResolutionModel struct {
	ID             string `gorm:"primaryKey"`
	DisputeID      string `gorm:"uniqueIndex"`
	ResolutionType string
	Amount         decimal.NullDecimal `gorm:"type:numeric(18,2)"`
	Details        string
	ResolvedBy     string
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
}

func (DisputeResolutionModel) TableName() string { return "dispute_resolutions" }
