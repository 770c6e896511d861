package configs

// Kafka configures publication of view count anomalies. When disabled the
// anomalies are only logged.
type Kafka struct {
	Enabled      bool     `env:"ENABLED" envDefault:"false"`
	Brokers      []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	AnomalyTopic string   `env:"ANOMALY_TOPIC" envDefault:"view-anomalies"`
}
