package pubsub

import "testing"

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "medimart-dev"}

	if got := c.topicResourceName("mm-order-events"); got != "projects/medimart-dev/topics/mm-order-events" {
		t.Fatalf("unexpected resource name %q", got)
	}

	full := "projects/other/topics/custom"
	if got := c.topicResourceName(full); got != full {
		t.Fatalf("full resource names should pass through, got %q", got)
	}

	if got := c.topicResourceName("  "); got != "" {
		t.Fatalf("blank topic should yield empty name, got %q", got)
	}

	empty := &Client{}
	if got := empty.topicResourceName("mm-order-events"); got != "" {
		t.Fatalf("missing project should yield empty name, got %q", got)
	}
}
