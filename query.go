// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d10

import "fmt"

// QueryType selects what a query measures.
type QueryType uint32

const (
	QueryEvent QueryType = iota
	QueryOcclusion
	QueryTimestamp
	QueryTimestampDisjoint
	QueryPipelineStatistics
	QueryOcclusionPredicate
	QuerySOStatistics
	QuerySOOverflowPredicate
)

var queryTypeNames = [...]string{
	QueryEvent:               "Event",
	QueryOcclusion:           "Occlusion",
	QueryTimestamp:           "Timestamp",
	QueryTimestampDisjoint:   "TimestampDisjoint",
	QueryPipelineStatistics:  "PipelineStatistics",
	QueryOcclusionPredicate:  "OcclusionPredicate",
	QuerySOStatistics:        "SOStatistics",
	QuerySOOverflowPredicate: "SOOverflowPredicate",
}

func (q QueryType) String() string {
	if int(q) < len(queryTypeNames) {
		return queryTypeNames[q]
	}
	return fmt.Sprintf("QueryType(%d)", uint32(q))
}

// isPredicate reports whether results of q can drive predication.
func (q QueryType) isPredicate() bool {
	return q == QueryOcclusionPredicate || q == QuerySOOverflowPredicate
}

// dataSize is the size of the result GetData would return.
func (q QueryType) dataSize() uint32 {
	switch q {
	case QueryEvent, QueryOcclusionPredicate, QuerySOOverflowPredicate:
		return 4 // BOOL
	case QueryOcclusion, QueryTimestamp:
		return 8
	case QueryTimestampDisjoint:
		return 16 // frequency + disjoint flag, padded
	case QueryPipelineStatistics:
		return 88
	case QuerySOStatistics:
		return 16
	}
	return 0
}

// QueryDesc describes a query.
type QueryDesc struct {
	Query     QueryType
	MiscFlags uint32
}

// Query is an asynchronous GPU query. Results are not implemented.
type Query struct {
	deviceChild
	desc QueryDesc
}

// CreateQuery creates a query of any known type.
func (d *Device) CreateQuery(desc *QueryDesc) (*Query, error) {
	if desc == nil {
		return nil, invalidArg("nil query descriptor")
	}
	if int(desc.Query) >= len(queryTypeNames) {
		return nil, invalidArg("unknown query type %v", desc.Query)
	}
	q := &Query{desc: *desc}
	q.init(d, true, nil)
	return q, nil
}

// QueryInterface answers for the device-child, asynchronous and query
// groups.
func (q *Query) QueryInterface(iid IID) (Unknown, error) {
	return query(q, iid, IIDDeviceChild, IIDAsynchronous, IIDQuery)
}

// GetDesc returns the query descriptor.
func (q *Query) GetDesc() QueryDesc { return q.desc }

// Begin marks the start of the measured commands. It has no effect.
func (q *Query) Begin() { stub("Query.Begin", "type", q.desc.Query) }

// End marks the end of the measured commands. It has no effect.
func (q *Query) End() { stub("Query.End", "type", q.desc.Query) }

// GetData is not implemented.
func (q *Query) GetData(data []byte, flags uint32) error {
	return notImplemented("Query.GetData", "type", q.desc.Query, "size", len(data))
}

// GetDataSize returns the size in bytes of the query result.
func (q *Query) GetDataSize() uint32 { return q.desc.Query.dataSize() }

// Predicate is a query whose result can gate rendering.
type Predicate struct {
	Query
}

// CreatePredicate creates an occlusion or stream-output overflow
// predicate.
func (d *Device) CreatePredicate(desc *QueryDesc) (*Predicate, error) {
	if desc == nil {
		return nil, invalidArg("nil predicate descriptor")
	}
	if !desc.Query.isPredicate() {
		return nil, invalidArg("query type %v is not a predicate", desc.Query)
	}
	p := &Predicate{Query: Query{desc: *desc}}
	p.init(d, true, nil)
	return p, nil
}

// QueryInterface answers for the device-child, asynchronous, query and
// predicate groups.
func (p *Predicate) QueryInterface(iid IID) (Unknown, error) {
	return query(p, iid, IIDDeviceChild, IIDAsynchronous, IIDQuery, IIDPredicate)
}
