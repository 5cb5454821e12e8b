// Command refresh-producer publishes stats refresh requests to Kafka.
// Useful for triggering recomputation for a set of accounts without
// going through the HTTP API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// RefreshMessage mirrors the consumer's wire format
type RefreshMessage struct {
	UserID   string `json:"user_id"`
	Platform string `json:"platform"`
}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "stats-refresh", "Kafka topic")
	users := flag.String("users", "", "User IDs to refresh (comma-separated)")
	platform := flag.String("platform", "steam", "Platform to refresh from (steam, xbox)")
	interval := flag.Duration("interval", 0, "Re-send interval (0 = send once and exit)")
	flag.Parse()

	userIDs := strings.Split(*users, ",")
	if *users == "" || len(userIDs) == 0 {
		log.Fatal("at least one user ID is required (-users)")
	}

	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(strings.Split(*brokers, ","), config)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}
	defer producer.Close()

	sendAll := func() {
		for _, userID := range userIDs {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				continue
			}

			data, err := json.Marshal(RefreshMessage{
				UserID:   userID,
				Platform: *platform,
			})
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				continue
			}

			msg := &sarama.ProducerMessage{
				Topic: *topic,
				Key:   sarama.StringEncoder(userID),
				Value: sarama.ByteEncoder(data),
			}

			partition, offset, err := producer.SendMessage(msg)
			if err != nil {
				log.Printf("Failed to send refresh for %s: %v", userID, err)
				continue
			}
			fmt.Printf("Sent refresh for %s (partition %d, offset %d)\n", userID, partition, offset)
		}
	}

	sendAll()
	if *interval <= 0 {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for range ticker.C {
		sendAll()
	}
}
