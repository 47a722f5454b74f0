package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func testEvent() Event {
	return NewEvent("run-1", "Alice", "Template:Did you know nominations/Foo", "User talk:Alice", StatusNotified)
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "audit", queueURL: "https://example.com/queue", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["status"]
	if !ok || aws.ToString(attr.StringValue) != StatusNotified || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("status attribute missing or wrong: %#v", attr)
	}
	if body := aws.ToString(client.input.MessageBody); !strings.Contains(body, `"contributor":"Alice"`) {
		t.Fatalf("MessageBody missing contributor: %s", body)
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	pub := &sqsPublisher{id: "audit", queueURL: "q", client: &fakeSQSClient{err: errors.New("boom")}, log: logger.NopLogger{}}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSNSPublisherSendsEvent(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "audit", topicARN: "arn:aws:sns:::topic", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["run_id"]
	if !ok || aws.ToString(attr.StringValue) != "run-1" {
		t.Fatalf("run_id attribute missing or wrong: %#v", attr)
	}
	if msg := aws.ToString(client.input.Message); !strings.Contains(msg, `"nomination":"Template:Did you know nominations/Foo"`) {
		t.Fatalf("Message missing nomination: %s", msg)
	}
}

func TestSNSPublisherSendError(t *testing.T) {
	pub := &snsPublisher{id: "audit", topicARN: "arn", client: &fakeSNSClient{err: errors.New("boom")}, log: logger.NopLogger{}}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSQSPublisherFIFOQueue(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "audit", queueURL: "https://example.com/events.fifo", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "run-1" {
		t.Fatalf("MessageGroupId = %q", got)
	}
	first := aws.ToString(client.input.MessageDeduplicationId)
	if len(first) != 64 {
		t.Fatalf("unexpected dedup id %q", first)
	}

	other := testEvent()
	other.Contributor = "Bob"
	if err := pub.Publish(context.Background(), other); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if aws.ToString(client.input.MessageDeduplicationId) == first {
		t.Fatalf("expected distinct dedup ids per contributor")
	}
}

func TestSQSPublisherStandardQueueHasNoGroup(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "audit", queueURL: "https://example.com/events", client: client, log: logger.NopLogger{}}

	if err := pub.Publish(context.Background(), Event{Contributor: "Alice"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input.MessageGroupId != nil || client.input.MessageDeduplicationId != nil {
		t.Fatalf("standard queues must not carry FIFO fields")
	}
	if _, ok := client.input.MessageAttributes["run_id"]; ok {
		t.Fatalf("empty attributes should be omitted")
	}
}
