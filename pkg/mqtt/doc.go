// Package mqtt runs an embedded MQTT broker built on mochi-mqtt.
//
// The broker lets the reading mirror publish over MQTT without an external
// broker: subscribe any MQTT client to "<prefix>/<device>/readings" on the
// configured port to watch streamed readings. Authentication is disabled;
// every client may connect, publish and subscribe.
package mqtt
