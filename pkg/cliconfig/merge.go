package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// A value is applied when its key was present in the source file or, for
// programmatic configs without SetFields, when it is non-zero.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	set := func(key string, nonZero bool) bool {
		if source.SetFields != nil {
			if !source.SetFields[key] {
				return false
			}
		} else if !nonZero {
			return false
		}
		target.Sources[key] = sourceType
		return true
	}

	if set("host", source.Host != "") {
		target.Host = source.Host
	}
	if set("port", source.Port != 0) {
		target.Port = source.Port
	}
	if set("metricsPort", source.MetricsPort != 0) {
		target.MetricsPort = source.MetricsPort
	}
	if set("deviceId", source.DeviceID != "") {
		target.DeviceID = source.DeviceID
	}
	if set("streamCount", source.StreamCount != 0) {
		target.StreamCount = source.StreamCount
	}
	if set("streamInterval", source.StreamInterval != 0) {
		target.StreamInterval = source.StreamInterval
	}
	if set("maxBodyBytes", source.MaxBodyBytes != 0) {
		target.MaxBodyBytes = source.MaxBodyBytes
	}
	if set("logLevel", source.LogLevel != "") {
		target.LogLevel = source.LogLevel
	}
	if set("logFormat", source.LogFormat != "") {
		target.LogFormat = source.LogFormat
	}
	if set("mqttBroker", source.MQTTBroker != "") {
		target.MQTTBroker = source.MQTTBroker
	}
	if set("mqttTopicPrefix", source.MQTTTopicPrefix != "") {
		target.MQTTTopicPrefix = source.MQTTTopicPrefix
	}
	if set("mqttPort", source.MQTTPort != 0) {
		target.MQTTPort = source.MQTTPort
	}
	if set("kafkaBrokers", len(source.KafkaBrokers) > 0) {
		target.KafkaBrokers = append([]string(nil), source.KafkaBrokers...)
	}
	if set("kafkaTopic", source.KafkaTopic != "") {
		target.KafkaTopic = source.KafkaTopic
	}
}
