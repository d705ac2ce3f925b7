package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const repairLogPath = "logs/repairs.log"

// StartRepairConsumer connects to RabbitMQ, declares the repair.events
// queue (durable), and starts consuming messages.  Each event is
// appended to logs/repairs.log in a single-line, human-friendly format.
// The function runs a reconnect loop with backoff and keeps running
// indefinitely; processing errors are logged and the offending message
// rejected so the server continues operating.
func StartRepairConsumer() {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("repair-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("repair-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(repairQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(repairQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("repair-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // drop the bad message
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// handleMessage decodes one event and appends it to the audit log.
func handleMessage(body []byte) error {
	var event RepairEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	line := formatLine(event)
	return appendLine(repairLogPath, line)
}

// formatLine renders one event as a single log line.
func formatLine(e RepairEvent) string {
	parts := []string{
		fmt.Sprintf("[%s]", e.OccurredAt),
		strings.ToUpper(e.Kind),
		e.TicketID,
		fmt.Sprintf("%s %s", e.Date, e.TimeSlot),
		e.IssueType,
	}
	if e.EmailStatus != "" {
		parts = append(parts, "email="+e.EmailStatus)
	}
	return strings.Join(parts, " ")
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = fmt.Fprintln(f, line)
	return err
}
