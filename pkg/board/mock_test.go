package board

import (
	"context"
	"net/http"

	"github.com/eshaffer321/board-go/internal/auth"
	"github.com/eshaffer321/board-go/internal/transport"
	internalTypes "github.com/eshaffer321/board-go/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *Request) *Envelope {
	args := m.Called(ctx, req)
	return args.Get(0).(*Envelope)
}

// newMockClient builds a client around mt without touching the network
func newMockClient(mt *MockTransport) *Client {
	client := &Client{
		transport: mt,
		tokens:    auth.NewTokenStore(nil),
		options:   &ClientOptions{},
		events:    newEventBus(),
		logger:    internalTypes.NopLogger{},
		baseURL:   "https://api.test.com",
	}
	client.initServices()
	return client
}

// jsonEnvelope decodes body as an application/json response
func jsonEnvelope(status int, body string) *Envelope {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return transport.Decode(status, h, []byte(body), nil)
}

// request matches a call by method and endpoint
func request(method, endpoint string) interface{} {
	return mock.MatchedBy(func(r *Request) bool {
		return r.Method == method && r.Endpoint == endpoint
	})
}
