package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AgreementStatus string

const (
	AgreementStatusDraft    AgreementStatus = "draft"
	AgreementStatusSent     AgreementStatus = "sent"
	AgreementStatusSigned   AgreementStatus = "signed"
	AgreementStatusDeclined AgreementStatus = "declined"
)

type Agreement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	ClientName string             `bson:"client_name" json:"client_name"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	Status     AgreementStatus    `bson:"status" json:"status"`
	SignedAt   *time.Time         `bson:"signed_at,omitempty" json:"-"`
	PDFFileID  string             `bson:"pdf_file_id,omitempty" json:"pdf_file_id,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
