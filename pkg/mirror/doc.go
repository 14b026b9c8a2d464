// Package mirror republishes streamed sensor readings to message brokers.
//
// A Dispatcher owns a bounded queue and a single worker goroutine. Stream
// handlers call Enqueue, which never blocks: when the queue is full the
// reading is dropped and reported through the drop callback. The worker fans
// each message out to every configured Sink (MQTT via paho, Kafka via
// kafka-go) and logs sink failures without surfacing them to HTTP clients.
package mirror
