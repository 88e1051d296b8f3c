package models

import "time"

type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAW"
	TransactionTransfer   TransactionType = "TRANSFER"
)

type Transaction struct {
	TransactionID string          `json:"transactionId"`
	Amount        float64         `json:"amount"`
	Type          TransactionType `json:"type"`
	Time          LocalTime       `json:"time"`
	AccountNumber int64           `json:"accountNumber"`
}

// TransferSlip is the body of POST /transactions/transfer. The receiver
// field name matches the backend DTO spelling.
type TransferSlip struct {
	SenderAccountNumber   int64   `json:"senderAccountNumber"`
	ReceiverAccountNumber int64   `json:"recieverAccountNumber"`
	Amount                float64 `json:"amount"`
}

// Page is a Spring Data page of T.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}

// LocalTime decodes the backend's zone-less timestamps
// ("2024-05-01T10:20:30.123456").
type LocalTime struct {
	time.Time
}

var localTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Value: s, Message: ": expected a JSON string"}
	}
	s = s[1 : len(s)-1]

	var err error
	for _, layout := range localTimeLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}
