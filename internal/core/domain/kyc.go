package domain

import "encoding/json"

// UserKyc is the KYC record of a user.
type UserKyc struct {
	ID         int64           `json:"id"`
	IDUser     int64           `json:"id_user"`
	IDIdType   *int64          `json:"id_idtype,omitempty"`
	Identity   *string         `json:"identity,omitempty"`
	Pictures   json.RawMessage `json:"pictures,omitempty"`
	SendedAt   *string         `json:"sended_at,omitempty"`
	ApprovedBy *int64          `json:"approved_by,omitempty"`
	ApprovedAt *string         `json:"approved_at,omitempty"`
	Approve    *bool           `json:"approve,omitempty"`
}

// KycSubmission is the body posted to /ukyc.
type KycSubmission struct {
	ID       *int64          `json:"id,omitempty"`
	IDUser   int64           `json:"id_user" validate:"required,gt=0"`
	IDIdType int64           `json:"id_idtype" validate:"required,gt=0"`
	Identity string          `json:"identity" validate:"required"`
	Pictures json.RawMessage `json:"pictures" validate:"required"`
}

// EncryptedFile is a file stored encrypted on IPFS.
type EncryptedFile struct {
	CID  string `json:"cid"`
	IV   string `json:"iv"`
	Mime string `json:"mime,omitempty"`
}
