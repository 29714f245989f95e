// Package events carries domain change notifications from the services that
// write data to the components that react to it.
//
// Services emit an Event through an EventEmitter after a write commits.
// InMemoryEventEmitter fans each event out to registered handlers in process:
// the analytics cache invalidation and, when a broker is configured,
// AMQPPublisher, which forwards the event to a RabbitMQ topic exchange.
package events
