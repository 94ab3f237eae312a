// Package testutil holds test doubles shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"social_server/models"
	"social_server/utils"
)

// Operation names recorded by MemoryStore and matched by FailOn.
const (
	OpGet         = "get"
	OpPut         = "put"
	OpPutIfAbsent = "put_if_absent"
	OpDelete      = "delete"
	OpPutItems    = "put_items"
	OpDeleteItems = "delete_items"
	OpQuery       = "query"
	OpCount       = "count"
	OpScan        = "scan"
	OpQueryIndex  = "query_index"
)

// Call is one recorded store invocation.
type Call struct {
	Op     string
	PK     string
	Prefix string
}

// MemoryStore is an in-memory table honoring the (PK, SK) model: sorted
// sort keys per partition, prefix queries, and all-or-nothing multi-item
// writes. It matches the errors of services.Store through the sentinels
// passed to NewMemoryStore.
type MemoryStore struct {
	mu         sync.Mutex
	partitions map[string]map[string]map[string]types.AttributeValue
	calls      []Call
	failures   map[string]error

	notFound error
	exists   error
}

// NewMemoryStore creates an empty store. notFound and exists are returned
// for absent point lookups and failed conditional puts.
func NewMemoryStore(notFound, exists error) *MemoryStore {
	return &MemoryStore{
		partitions: map[string]map[string]map[string]types.AttributeValue{},
		failures:   map[string]error{},
		notFound:   notFound,
		exists:     exists,
	}
}

// FailOn makes every op against partition pk fail with err. An empty pk
// matches every partition.
func (s *MemoryStore) FailOn(op, pk string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op+"|"+pk] = err
}

// Calls returns the recorded invocations.
func (s *MemoryStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts recorded invocations of op with the given prefix.
func (s *MemoryStore) CountCalls(op, prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Op == op && c.Prefix == prefix {
			n++
		}
	}
	return n
}

// Seed writes a raw item, bypassing failure injection and call recording.
func (s *MemoryStore) Seed(item map[string]types.AttributeValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk, _ := utils.ExtractString(item, models.AttrPK)
	sk, _ := utils.ExtractString(item, models.AttrSK)
	s.putLocked(pk, sk, item)
}

// Len reports the number of stored items.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.partitions {
		n += len(p)
	}
	return n
}

func (s *MemoryStore) GetItem(ctx context.Context, key models.Key) (map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpGet, key.PK, key.SK); err != nil {
		return nil, err
	}
	item, ok := s.partitions[key.PK][key.SK]
	if !ok {
		return nil, s.notFound
	}
	return copyItem(item, nil), nil
}

func (s *MemoryStore) PutItem(ctx context.Context, item interface{}) error {
	av, pk, sk, err := marshal(item)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpPut, pk, sk); err != nil {
		return err
	}
	s.putLocked(pk, sk, av)
	return nil
}

func (s *MemoryStore) PutItemIfNotExists(ctx context.Context, item interface{}) error {
	av, pk, sk, err := marshal(item)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpPutIfAbsent, pk, sk); err != nil {
		return err
	}
	if _, ok := s.partitions[pk][sk]; ok {
		return s.exists
	}
	s.putLocked(pk, sk, av)
	return nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, key models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpDelete, key.PK, key.SK); err != nil {
		return err
	}
	delete(s.partitions[key.PK], key.SK)
	return nil
}

func (s *MemoryStore) PutItems(ctx context.Context, items ...interface{}) error {
	type staged struct {
		pk, sk string
		av     map[string]types.AttributeValue
	}
	batch := make([]staged, 0, len(items))
	for _, item := range items {
		av, pk, sk, err := marshal(item)
		if err != nil {
			return err
		}
		batch = append(batch, staged{pk, sk, av})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range batch {
		if err := s.record(OpPutItems, b.pk, b.sk); err != nil {
			return err
		}
	}
	for _, b := range batch {
		s.putLocked(b.pk, b.sk, b.av)
	}
	return nil
}

func (s *MemoryStore) DeleteItems(ctx context.Context, keys ...models.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if err := s.record(OpDeleteItems, key.PK, key.SK); err != nil {
			return err
		}
	}
	for _, key := range keys {
		delete(s.partitions[key.PK], key.SK)
	}
	return nil
}

func (s *MemoryStore) QueryPrefix(ctx context.Context, pk, skPrefix string, projection ...string) ([]map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpQuery, pk, skPrefix); err != nil {
		return nil, err
	}
	var items []map[string]types.AttributeValue
	for _, sk := range s.sortedKeys(pk, skPrefix) {
		items = append(items, copyItem(s.partitions[pk][sk], projection))
	}
	return items, nil
}

func (s *MemoryStore) CountPrefix(ctx context.Context, pk, skPrefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpCount, pk, skPrefix); err != nil {
		return 0, err
	}
	return len(s.sortedKeys(pk, skPrefix)), nil
}

func (s *MemoryStore) ScanSortKey(ctx context.Context, sk string, projection ...string) ([]map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpScan, "", sk); err != nil {
		return nil, err
	}
	pks := make([]string, 0, len(s.partitions))
	for pk := range s.partitions {
		pks = append(pks, pk)
	}
	sort.Strings(pks)

	var items []map[string]types.AttributeValue
	for _, pk := range pks {
		if !strings.HasPrefix(pk, models.UserPrefix) {
			continue
		}
		if item, ok := s.partitions[pk][sk]; ok {
			items = append(items, copyItem(item, projection))
		}
	}
	return items, nil
}

func (s *MemoryStore) QueryIndex(ctx context.Context, indexName, attribute, value string, limit int32) ([]map[string]types.AttributeValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(OpQueryIndex, "", indexName); err != nil {
		return nil, err
	}
	pks := make([]string, 0, len(s.partitions))
	for pk := range s.partitions {
		pks = append(pks, pk)
	}
	sort.Strings(pks)

	var items []map[string]types.AttributeValue
	for _, pk := range pks {
		for _, sk := range s.sortedKeys(pk, "") {
			item := s.partitions[pk][sk]
			if v, ok := utils.ExtractString(item, attribute); ok && v == value {
				items = append(items, copyItem(item, nil))
				if limit > 0 && int32(len(items)) >= limit {
					return items, nil
				}
			}
		}
	}
	return items, nil
}

func (s *MemoryStore) record(op, pk, prefix string) error {
	s.calls = append(s.calls, Call{Op: op, PK: pk, Prefix: prefix})
	if err, ok := s.failures[op+"|"+pk]; ok {
		return err
	}
	if err, ok := s.failures[op+"|"]; ok {
		return err
	}
	return nil
}

func (s *MemoryStore) putLocked(pk, sk string, item map[string]types.AttributeValue) {
	if s.partitions[pk] == nil {
		s.partitions[pk] = map[string]map[string]types.AttributeValue{}
	}
	s.partitions[pk][sk] = copyItem(item, nil)
}

func (s *MemoryStore) sortedKeys(pk, prefix string) []string {
	var keys []string
	for sk := range s.partitions[pk] {
		if strings.HasPrefix(sk, prefix) {
			keys = append(keys, sk)
		}
	}
	sort.Strings(keys)
	return keys
}

func marshal(item interface{}) (map[string]types.AttributeValue, string, string, error) {
	av, ok := item.(map[string]types.AttributeValue)
	if !ok {
		var err error
		av, err = attributevalue.MarshalMap(item)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to marshal item: %w", err)
		}
	}
	pk, okPK := utils.ExtractString(av, models.AttrPK)
	sk, okSK := utils.ExtractString(av, models.AttrSK)
	if !okPK || !okSK {
		return nil, "", "", errors.New("item is missing PK or SK")
	}
	return av, pk, sk, nil
}

func copyItem(item map[string]types.AttributeValue, projection []string) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	if len(projection) == 0 {
		for k, v := range item {
			out[k] = v
		}
		return out
	}
	for _, field := range projection {
		if v, ok := item[field]; ok {
			out[field] = v
		}
	}
	return out
}
