// Package events carries order lifecycle notifications from the order
// service to whatever publishes them.
//
// The order service emits an Event after a successful commit. Handlers are
// registered on an EventEmitter; the Kafka publisher in platform/kafka is one
// such handler.
package events
