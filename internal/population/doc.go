// Package population is the resource-management substrate for processing
// large entity collections: a capacity-bounded entity pool, an
// order-preserving batch iterator, a chunked streaming processor, and a
// dirty-identifier tracker.
//
// These utilities keep peak memory and allocation churn bounded by batch
// and pool capacity rather than population size, which is what lets the
// engine's population × statute cross-product scale to tens of thousands
// of entities.
package population
