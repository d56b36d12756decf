package store

import (
	"path/filepath"
	"sync"
	"time"

	"panelxd/pkg/types"
)

// FreeLaunchCredits is granted to every account while free-launch mode is on.
const FreeLaunchCredits = 1000

// launchPackages is the catalog shown during free launch (display only).
var launchPackages = []types.CreditPackage{
	{
		ID:           "free",
		Name:         "Launch Special",
		Credits:      FreeLaunchCredits,
		PriceCents:   0,
		PriceDisplay: "FREE",
		Badge:        "Limited Time",
	},
}

// Credits persists balances in data/credits.json and the transaction log in
// data/transactions.json.
type Credits struct {
	mu           sync.Mutex
	balancesPath string
	txnsPath     string
	balances     map[string]int64
	txns         map[string][]types.CreditTransaction
	freeLaunch   bool
}

func NewCredits(dataDir string, freeLaunch bool) (*Credits, error) {
	s := &Credits{
		balancesPath: filepath.Join(dataDir, "credits.json"),
		txnsPath:     filepath.Join(dataDir, "transactions.json"),
		balances:     make(map[string]int64),
		txns:         make(map[string][]types.CreditTransaction),
		freeLaunch:   freeLaunch,
	}
	if err := loadJSONFile(s.balancesPath, &s.balances); err != nil {
		return nil, err
	}
	if err := loadJSONFile(s.txnsPath, &s.txns); err != nil {
		return nil, err
	}
	return s, nil
}

// Packages returns the purchasable bundles.
func (s *Credits) Packages() []types.CreditPackage {
	out := make([]types.CreditPackage, len(launchPackages))
	copy(out, launchPackages)
	return out
}

// Init seeds an account with launch credits if it has no balance yet.
// Calling it again is a no-op, which keeps startup idempotent for clients.
func (s *Credits) Init(uid string) (types.CreditBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[uid]; !ok {
		s.balances[uid] = FreeLaunchCredits
		s.appendTxn(uid, FreeLaunchCredits, "grant")
		if err := s.persist(); err != nil {
			return types.CreditBalance{}, err
		}
	}
	return types.CreditBalance{UID: uid, Balance: s.balances[uid], FreeLaunch: s.freeLaunch}, nil
}

func (s *Credits) Balance(uid string) (types.CreditBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bal, ok := s.balances[uid]
	if !ok {
		return types.CreditBalance{}, ErrNotFound
	}
	return types.CreditBalance{UID: uid, Balance: bal, FreeLaunch: s.freeLaunch}, nil
}

// Use debits amount from uid. In free-launch mode the debit is recorded but
// the balance never drops below zero and is never a rejection reason.
func (s *Credits) Use(uid string, amount int64, reason string) (types.CreditBalance, error) {
	if amount <= 0 {
		amount = 1
	}
	if reason == "" {
		reason = "usage"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bal, ok := s.balances[uid]
	if !ok {
		return types.CreditBalance{}, ErrNotFound
	}
	if !s.freeLaunch && bal < amount {
		return types.CreditBalance{}, ErrInsufficientCredits
	}
	bal -= amount
	if bal < 0 {
		bal = 0
	}
	s.balances[uid] = bal
	s.appendTxn(uid, -amount, reason)
	if err := s.persist(); err != nil {
		return types.CreditBalance{}, err
	}
	return types.CreditBalance{UID: uid, Balance: bal, FreeLaunch: s.freeLaunch}, nil
}

// Charge implements the engine's Charger interface.
func (s *Credits) Charge(uid string, amount int64, reason string) error {
	_, err := s.Use(uid, amount, reason)
	return err
}

// Refund restores credits debited for a generation that failed afterwards.
// Unknown accounts are rejected rather than created.
func (s *Credits) Refund(uid string, amount int64, reason string) error {
	if amount <= 0 {
		return nil
	}
	if reason == "" {
		reason = "refund"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bal, ok := s.balances[uid]
	if !ok {
		return ErrNotFound
	}
	s.balances[uid] = bal + amount
	s.appendTxn(uid, amount, reason)
	return s.persist()
}

// History returns the transaction log for uid, newest first.
func (s *Credits) History(uid string) []types.CreditTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	txns := s.txns[uid]
	out := make([]types.CreditTransaction, len(txns))
	for i, t := range txns {
		out[len(txns)-1-i] = t
	}
	return out
}

// FreeLaunch reports whether the platform is granting free credits.
func (s *Credits) FreeLaunch() bool { return s.freeLaunch }

func (s *Credits) appendTxn(uid string, amount int64, reason string) {
	s.txns[uid] = append(s.txns[uid], types.CreditTransaction{
		ID:        genID("txn"),
		UID:       uid,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: time.Now().Unix(),
	})
}

func (s *Credits) persist() error {
	if err := saveJSONFile(s.balancesPath, s.balances); err != nil {
		return err
	}
	return saveJSONFile(s.txnsPath, s.txns)
}
