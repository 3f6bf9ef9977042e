// Package queueing moves entity payloads through an MQTT broker.
//
// Messages carry a uuid, a creation timestamp and a dictionary payload,
// serialized by a pluggable codec (JSON by default, msgpack for compact
// transport). Producer and Consumer are thin wrappers over the paho MQTT
// client:
//
//	cfg, err := queueing.ParseConfig(file.Dict())
//	if err != nil {
//		log.Fatal(err)
//	}
//	prod, err := queueing.NewProducer(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer prod.Close()
//
//	msg := queueing.New("sensors/kitchen/temperature")
//	msg.SetPayload(map[string]any{"celsius": 21.5})
//	err = prod.Publish(msg)
package queueing
