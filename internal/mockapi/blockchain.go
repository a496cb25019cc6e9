package mockapi

import (
	"context"
	"fmt"
	"time"
)

// VerificationResult is returned by VerifyContent. On success every field
// except Error is set; on failure only Verified and Error are.
type VerificationResult struct {
	Verified      bool       `json:"verified"`
	ContentHash   string     `json:"contentHash,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	BlockNumber   int        `json:"blockNumber,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// RegistrationResult is returned by RegisterContent.
type RegistrationResult struct {
	Success       bool       `json:"success"`
	ContentHash   string     `json:"contentHash,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// HashVerification is returned by VerifyHash.
type HashVerification struct {
	Verified    bool       `json:"verified"`
	ContentHash string     `json:"contentHash,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Source      string     `json:"source,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Transaction is an on-chain operation. BlockNumber is set only once confirmed.
type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	ContentURL  string    `json:"contentUrl"`
	ContentHash string    `json:"contentHash"`
	BlockNumber *int      `json:"blockNumber,omitempty"`
}

// DailyTransactions is one point of the performance chart.
type DailyTransactions struct {
	Date             string  `json:"date"`
	Count            int     `json:"count"`
	ConfirmationTime float64 `json:"confirmationTime"`
}

// PerformanceMetrics summarises chain throughput.
type PerformanceMetrics struct {
	TransactionCount        int                 `json:"transactionCount"`
	AverageConfirmationTime float64             `json:"averageConfirmationTime"`
	SuccessRate             float64             `json:"successRate"`
	DailyTransactions       []DailyTransactions `json:"dailyTransactions"`
}

// Failure rates of the simulated chain operations.
const (
	verifyContentFailureRate   = 0.2
	registerContentFailureRate = 0.1
	verifyHashFailureRate      = 0.3
)

const (
	TransactionRegister = "register"
	TransactionVerify   = "verify"
	TransactionUpdate   = "update"

	TransactionConfirmed = "confirmed"
	TransactionPending   = "pending"
	TransactionFailed    = "failed"
)

var (
	transactionTypes    = []string{TransactionRegister, TransactionVerify, TransactionUpdate}
	transactionStatuses = []string{TransactionConfirmed, TransactionPending, TransactionFailed}
	chartDates          = []string{"Jan 1", "Jan 8", "Jan 15", "Jan 22", "Jan 29", "Feb 5", "Feb 12", "Feb 19", "Feb 26"}
)

func (g *Generator) blockNumber() int {
	return g.intn(1_000_000) + 15_000_000
}

// VerifyContent looks up content by url or hash. It succeeds about 80% of the time.
func (g *Generator) VerifyContent(ctx context.Context, url, hash string) (*VerificationResult, error) {
	if err := g.wait(ctx, 1500*time.Millisecond); err != nil {
		return nil, err
	}

	if !g.chance(verifyContentFailureRate) {
		return &VerificationResult{Verified: false, Error: "Content not found on blockchain"}, nil
	}

	contentHash := hash
	if contentHash == "" {
		contentHash = g.hex(64)
	}
	ts := g.timestamp()
	return &VerificationResult{
		Verified:      true,
		ContentHash:   contentHash,
		Timestamp:     &ts,
		TransactionID: g.hex(64),
		BlockNumber:   g.blockNumber(),
	}, nil
}

// RegisterContent anchors the content at url. It succeeds about 90% of the time.
func (g *Generator) RegisterContent(ctx context.Context, url string) (*RegistrationResult, error) {
	if err := g.wait(ctx, 2*time.Second); err != nil {
		return nil, err
	}

	if !g.chance(registerContentFailureRate) {
		return &RegistrationResult{Success: false, Error: "Failed to register content"}, nil
	}

	contentHash := g.hex(64)
	transactionID := g.hex(64)
	ts := g.timestamp()
	return &RegistrationResult{
		Success:       true,
		ContentHash:   contentHash,
		TransactionID: transactionID,
		Timestamp:     &ts,
	}, nil
}

// VerifyHash checks a value of the given type ("hash", "url" or "text").
// It succeeds about 70% of the time.
func (g *Generator) VerifyHash(ctx context.Context, kind, value string) (*HashVerification, error) {
	if err := g.wait(ctx, time.Second); err != nil {
		return nil, err
	}

	if !g.chance(verifyHashFailureRate) {
		return &HashVerification{Verified: false, Error: "Content verification failed"}, nil
	}

	contentHash := value
	if kind != "hash" {
		contentHash = g.hex(64)
	}
	ts := g.timestamp().Add(-time.Duration(g.intn(int(30*day/time.Millisecond))) * time.Millisecond)
	source := "Unknown"
	if kind == "url" {
		source = value
	}
	return &HashVerification{
		Verified:    true,
		ContentHash: contentHash,
		Timestamp:   &ts,
		Source:      source,
	}, nil
}

// Transactions returns ten recent chain transactions.
func (g *Generator) Transactions(ctx context.Context) ([]Transaction, error) {
	if err := g.wait(ctx, time.Second); err != nil {
		return nil, err
	}

	now := g.timestamp()
	transactions := make([]Transaction, 0, 10)
	for i := range 10 {
		kind := g.pick(transactionTypes)
		status := g.pick(transactionStatuses)
		ts := now.Add(-time.Duration(g.intn(int(30*day/time.Millisecond))) * time.Millisecond)

		tx := Transaction{
			ID:          fmt.Sprintf("tx-%d", i+1),
			Type:        kind,
			Status:      status,
			Timestamp:   ts,
			ContentURL:  fmt.Sprintf("https://example.com/content-%d", i+1),
			ContentHash: g.hex(40),
		}
		if status == TransactionConfirmed {
			n := g.blockNumber()
			tx.BlockNumber = &n
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// BlockchainPerformance returns nine weeks of throughput as a bounded random walk.
func (g *Generator) BlockchainPerformance(ctx context.Context) (*PerformanceMetrics, error) {
	if err := g.wait(ctx, 1200*time.Millisecond); err != nil {
		return nil, err
	}

	count := g.intn(50) + 100
	confirmation := g.float()*2 + 1

	metrics := &PerformanceMetrics{
		SuccessRate:       98.7,
		DailyTransactions: make([]DailyTransactions, 0, len(chartDates)),
	}
	var totalConfirmation float64
	for _, date := range chartDates {
		count += g.intn(20) - 5
		confirmation += g.float()*0.4 - 0.2

		count = max(50, count)
		confirmation = max(0.5, min(5, confirmation))

		metrics.DailyTransactions = append(metrics.DailyTransactions, DailyTransactions{
			Date:             date,
			Count:            count,
			ConfirmationTime: confirmation,
		})
		metrics.TransactionCount += count
		totalConfirmation += confirmation
	}
	metrics.AverageConfirmationTime = totalConfirmation / float64(len(chartDates))
	return metrics, nil
}
