package bus

import "testing"

func Test_Publish_DeliversToAllSubscribersOfTopic(t *testing.T) {
	b := New()
	var got []interface{}
	b.Subscribe("a", func(payload interface{}) { got = append(got, payload) })
	b.Subscribe("a", func(payload interface{}) { got = append(got, payload) })

	b.Publish("a", "hello")

	if len(got) != 2 {
		t.Fatalf("expected both subscribers to receive the payload, got %d deliveries", len(got))
	}
}

func Test_Subscribe_SpaceSeparatedTopicsFanIntoOneHandler(t *testing.T) {
	b := New()
	count := 0
	b.Subscribe("a b c", func(payload interface{}) { count++ })

	b.Publish("a", nil)
	b.Publish("b", nil)
	b.Publish("c", nil)
	b.Publish("d", nil)

	if count != 3 {
		t.Fatalf("expected 3 deliveries across a/b/c, got %d", count)
	}
}

func Test_Subscribe_UnsubscribeRemovesHandlerFromEveryTopicItJoined(t *testing.T) {
	b := New()
	count := 0
	unsubscribe := b.Subscribe("a b", func(payload interface{}) { count++ })

	unsubscribe()
	b.Publish("a", nil)
	b.Publish("b", nil)

	if count != 0 {
		t.Fatalf("expected no deliveries after unsubscribe, got %d", count)
	}
}

func Test_Publish_UnknownTopicIsANoop(t *testing.T) {
	b := New()
	b.Publish("nothing-subscribed", "payload")
}
