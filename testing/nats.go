package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an in-process NATS server with JetStream enabled.
//
// The server listens on a random port and stores data in a test temp dir. Server and
// connection are shut down through tb.Cleanup.
//
// Returns:
//   - *server.Server: The embedded server
//   - *nats.Conn: Connected client
func StartEmbeddedNATS(tb testing.TB) (*server.Server, *nats.Conn) {
	tb.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  tb.TempDir(),
		NoLog:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		tb.Fatalf("Failed to create embedded NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		tb.Fatal("Embedded NATS server not ready within timeout")
	}

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		ns.Shutdown()
		tb.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	tb.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// NewJetStream returns a JetStream handle for nc or fails the test.
func NewJetStream(tb testing.TB, nc *nats.Conn) jetstream.JetStream {
	tb.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		tb.Fatalf("Failed to get JetStream context: %v", err)
	}

	return js
}

// CreateJetStreamKV creates an in-memory KV bucket for a test.
func CreateJetStreamKV(tb testing.TB, nc *nats.Conn, bucketName string) jetstream.KeyValue {
	tb.Helper()

	js := NewJetStream(tb, nc)
	kv, err := js.CreateKeyValue(tb.Context(), jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Test KV bucket: %s", bucketName),
		Storage:     jetstream.MemoryStorage,
		Replicas:    1,
	})
	if err != nil {
		tb.Fatalf("Failed to create KV bucket %s: %v", bucketName, err)
	}

	return kv
}

// CreateStream creates an in-memory stream capturing subjects.
func CreateStream(tb testing.TB, nc *nats.Conn, name string, subjects ...string) jetstream.Stream {
	tb.Helper()

	js := NewJetStream(tb, nc)
	stream, err := js.CreateStream(tb.Context(), jetstream.StreamConfig{
		Name:     name,
		Subjects: subjects,
		Storage:  jetstream.MemoryStorage,
		Replicas: 1,
	})
	if err != nil {
		tb.Fatalf("Failed to create stream %s: %v", name, err)
	}

	return stream
}
