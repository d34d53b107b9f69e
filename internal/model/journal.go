package model

type JournalKind string

const (
	JournalOrder JournalKind = "ORDER"
	JournalStock JournalKind = "STOCK"
)

// JournalEntry records one settled order or one committed stock batch so the
// dashboard and activity log can be rebuilt without asking the remote store.
type JournalEntry struct {
	BaseModel
	Kind          JournalKind   `gorm:"type:varchar(10);index;not null" json:"kind"`
	Reference     string        `gorm:"type:varchar(64);index;not null" json:"reference"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	Amount        int64         `gorm:"default:0" json:"amount"`
	Items         int           `gorm:"default:0" json:"items"`
	Outcome       string        `gorm:"type:varchar(10)" json:"outcome"`
	Note          string        `json:"note"`
}
