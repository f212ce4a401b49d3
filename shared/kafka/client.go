package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkaLib "github.com/segmentio/kafka-go"
)

// Producer Kafka 메시지 발행을 위한 인터페이스
// 수집 파이프라인은 이것만 알고, 브로커 미설정 시 nil로 둠
type Producer interface {
	PublishMessage(ctx context.Context, key []byte, value any) error
	Close() error
}

// KafkaProducer Producer 인터페이스 구현체
type KafkaProducer struct {
	writer *kafkaLib.Writer
}

// NewProducer Producer 생성
// 수집은 초당 수 건 수준(레이트리밋 순차 처리)이라 소배치 + 짧은 타임아웃으로 충분
func NewProducer(brokers []string, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafkaLib.Writer{
			Addr:         kafkaLib.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkaLib.Hash{}, // 주소 키 기준 균등 분배
			RequiredAcks: kafkaLib.RequireOne,
			Async:        true,
			BatchSize:    100,
			BatchTimeout: 50 * time.Millisecond,
			Compression:  kafkaLib.Snappy,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		},
	}
}

// PublishMessage 메시지 발행 (value는 JSON 직렬화)
func (p *KafkaProducer) PublishMessage(ctx context.Context, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafkaLib.Message{
		Key:   key,
		Value: data,
	})
}

// Close Producer 종료
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// CreateTopicIfNotExists 토픽이 존재하지 않으면 생성
func CreateTopicIfNotExists(brokers []string, topic string, partitions int, replicationFactor int) error {
	conn, err := kafkaLib.DialContext(context.Background(), "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to kafka: %w", err)
	}
	defer conn.Close()

	// 토픽 존재 확인 (빠른 체크)
	partitionResp, err := conn.ReadPartitions(topic)
	if err == nil && len(partitionResp) > 0 {
		return nil
	}

	topicConfigs := []kafkaLib.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     partitions,
			ReplicationFactor: replicationFactor,
		},
	}

	if err := conn.CreateTopics(topicConfigs...); err != nil {
		// 토픽이 이미 존재하는 경우의 에러는 무시
		if err.Error() != "Topic already exists" {
			return fmt.Errorf("failed to create topic '%s': %w", topic, err)
		}
	}
	return nil
}
