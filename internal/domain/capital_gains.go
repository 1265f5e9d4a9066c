package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DateBucket places a transfer before or after the 23 July 2024 rate change.
type DateBucket string

const (
	BucketBeforeCutoff DateBucket = "before23July2024"
	BucketAfterCutoff  DateBucket = "after23July2024"
)

// DateBuckets lists the buckets in chronological order.
var DateBuckets = []DateBucket{BucketBeforeCutoff, BucketAfterCutoff}

// Label returns a short human description of the bucket.
func (b DateBucket) Label() string {
	switch b {
	case BucketBeforeCutoff:
		return "Before 23 Jul 2024"
	case BucketAfterCutoff:
		return "On/after 23 Jul 2024"
	}
	return string(b)
}

// ParseDateBucket accepts the canonical keys and a few short aliases.
// Empty input resolves to the post-cutoff bucket.
func ParseDateBucket(s string) (DateBucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "after23july2024", "after", "after_cutoff", "post":
		return BucketAfterCutoff, nil
	case "before23july2024", "before", "before_cutoff", "pre":
		return BucketBeforeCutoff, nil
	}
	return "", NewConfigError("capital_gains.bucket", s, ErrUnknownDateBucket)
}

// Term is the holding-period classification of a gain.
type Term string

const (
	ShortTerm Term = "short"
	LongTerm  Term = "long"
)

// ParseTerm accepts "short"/"long" and the STCG/LTCG abbreviations.
func ParseTerm(s string) (Term, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "stcg", "short_term":
		return ShortTerm, nil
	case "long", "ltcg", "long_term":
		return LongTerm, nil
	}
	return "", NewConfigError("capital_gains.term", s, ErrUnknownTerm)
}

// Transaction is a single realized capital gain.
type Transaction struct {
	ID     int             `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Bucket DateBucket      `json:"bucket"`
	Term   Term            `json:"term"`
}

// CapitalGains groups short- and long-term transactions in entry order.
type CapitalGains struct {
	STCG []Transaction `json:"stcg,omitempty"`
	LTCG []Transaction `json:"ltcg,omitempty"`
}

// All returns every transaction with its term taken from the list it sits in.
func (cg CapitalGains) All() []Transaction {
	out := make([]Transaction, 0, len(cg.STCG)+len(cg.LTCG))
	for _, tx := range cg.STCG {
		tx.Term = ShortTerm
		out = append(out, tx)
	}
	for _, tx := range cg.LTCG {
		tx.Term = LongTerm
		out = append(out, tx)
	}
	return out
}

// HasPositive reports whether any transaction carries a positive amount.
func (cg CapitalGains) HasPositive() bool {
	for _, tx := range cg.All() {
		if tx.Amount.IsPositive() {
			return true
		}
	}
	return false
}

// TransactionList is an ordered arena of transactions addressed by stable ids.
// Ids start at 1 and are never reused after removal.
type TransactionList struct {
	items  []Transaction
	nextID int
}

// NewTransactionList returns an empty list.
func NewTransactionList() *TransactionList {
	return &TransactionList{nextID: 1}
}

// Add appends a transaction and returns it with its assigned id.
func (l *TransactionList) Add(term Term, amount decimal.Decimal, bucket DateBucket) Transaction {
	if l.nextID == 0 {
		l.nextID = 1
	}
	tx := Transaction{ID: l.nextID, Amount: amount, Bucket: bucket, Term: term}
	l.nextID++
	l.items = append(l.items, tx)
	return tx
}

// Remove deletes the transaction with id. It reports whether one was found.
func (l *TransactionList) Remove(id int) bool {
	for i, tx := range l.items {
		if tx.ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Update applies fn to the transaction with id. The id itself cannot change.
func (l *TransactionList) Update(id int, fn func(*Transaction)) bool {
	for i := range l.items {
		if l.items[i].ID == id {
			fn(&l.items[i])
			l.items[i].ID = id
			return true
		}
	}
	return false
}

// Get returns the transaction with id.
func (l *TransactionList) Get(id int) (Transaction, bool) {
	for _, tx := range l.items {
		if tx.ID == id {
			return tx, true
		}
	}
	return Transaction{}, false
}

// Len returns the number of transactions.
func (l *TransactionList) Len() int { return len(l.items) }

// Items returns a copy of the transactions in entry order.
func (l *TransactionList) Items() []Transaction {
	out := make([]Transaction, len(l.items))
	copy(out, l.items)
	return out
}

// CapitalGains splits the list into short- and long-term groups.
func (l *TransactionList) CapitalGains() CapitalGains {
	var cg CapitalGains
	for _, tx := range l.items {
		if tx.Term == LongTerm {
			cg.LTCG = append(cg.LTCG, tx)
		} else {
			cg.STCG = append(cg.STCG, tx)
		}
	}
	return cg
}
