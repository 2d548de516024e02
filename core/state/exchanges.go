package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"mcashchain/core/types"
)

// GetExchange returns the exchange with the given id, or nil when unknown.
func (m *Manager) GetExchange(id int64) (*types.Exchange, error) {
	rec := new(exchangeRecord)
	ok, err := m.Get(CollectionExchanges, idKey(id), rec)
	if err != nil || !ok {
		return nil, err
	}
	return rec.toExchange(), nil
}

// PutExchange persists the exchange.
func (m *Manager) PutExchange(ex *types.Exchange) error {
	if ex == nil {
		return fmt.Errorf("state: nil exchange")
	}
	return m.Put(CollectionExchanges, idKey(ex.ID), newExchangeRecord(ex))
}

// ForEachExchange visits every exchange in id order.
func (m *Manager) ForEachExchange(fn func(*types.Exchange) error) error {
	return m.Iterate(CollectionExchanges, func(_, value []byte) error {
		rec := new(exchangeRecord)
		if err := rlp.DecodeBytes(value, rec); err != nil {
			return fmt.Errorf("state: decode exchange: %w", err)
		}
		return fn(rec.toExchange())
	})
}
