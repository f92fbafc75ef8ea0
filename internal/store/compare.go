package store

import (
	"fmt"
	"log/slog"
	"sync"

	"perdecim-client/internal/credentials"
	"perdecim-client/internal/model"
)

// MaxCompareItems is the compare page's column count.
const MaxCompareItems = 4

// CompareStore is the bounded product comparison list. It lives entirely in
// durable client storage, independent of the server cart, and survives both
// login and logout.
type CompareStore struct {
	creds    *credentials.Store
	notifier Notifier

	mu sync.Mutex
}

// NewCompare creates a compare store over the durable credentials storage.
func NewCompare(creds *credentials.Store, notifier Notifier) *CompareStore {
	if notifier == nil {
		notifier = &LogNotifier{Logger: slog.Default()}
	}
	return &CompareStore{creds: creds, notifier: notifier}
}

// Items returns the current compare list.
func (s *CompareStore) Items() []model.CompareItem {
	return s.creds.CompareList()
}

// Contains reports whether the product is already on the list.
func (s *CompareStore) Contains(productID string) bool {
	for _, it := range s.creds.CompareList() {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Add appends a product snapshot. A duplicate or a fifth product is
// rejected with a user-visible message; Add reports whether the item went in.
func (s *CompareStore) Add(item model.CompareItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.creds.CompareList()
	for _, it := range items {
		if it.ProductID == item.ProductID {
			s.notifier.Error("This product is already in your comparison.")
			return false
		}
	}
	if len(items) >= MaxCompareItems {
		s.notifier.Error(fmt.Sprintf("You can compare up to %d products. Remove one first.", MaxCompareItems))
		return false
	}

	items = append(items, item)
	if err := s.creds.SaveCompareList(items); err != nil {
		s.notifier.Error("Could not save your comparison list.")
		return false
	}
	s.notifier.Success("Added to comparison.")
	return true
}

// Remove drops a product from the list. Removing an absent product is a
// no-op.
func (s *CompareStore) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.creds.CompareList()
	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return
	}
	if err := s.creds.SaveCompareList(kept); err != nil {
		s.notifier.Error("Could not save your comparison list.")
	}
}

// Clear empties the list.
func (s *CompareStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.creds.SaveCompareList(nil); err != nil {
		s.notifier.Error("Could not save your comparison list.")
	}
}
