package hub

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
)

// Event names used when the caller leaves Options fields empty.
const (
	DefaultEvaluateEvent = "evaluate"
	DefaultResultEvent   = "result"
	DefaultProgressEvent = "progress"

	defaultConnectTimeout = 15 * time.Second
)

// Options configures a Client.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration

	EvaluateEvent string
	ResultEvent   string
	ProgressEvent string
	// DisableProgress suppresses progress events.
	DisableProgress bool
}

func (o *Options) setDefaults() {
	if o.Namespace == "" {
		o.Namespace = "/"
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = defaultConnectTimeout
	}
	if o.EvaluateEvent == "" {
		o.EvaluateEvent = DefaultEvaluateEvent
	}
	if o.ResultEvent == "" {
		o.ResultEvent = DefaultResultEvent
	}
	if o.ProgressEvent == "" {
		o.ProgressEvent = DefaultProgressEvent
	}
}

// Client is a connected Socket.IO client serving evaluate requests.
type Client struct {
	io   *socket.Socket
	opts Options
}

// Dial connects to the Socket.IO server at opts.URL and waits until the
// connection is established, the context is cancelled or the connect
// timeout elapses.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	opts.setDefaults()
	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "namespace", opts.Namespace)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("URL %q must include a scheme and host", opts.URL)
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to hub.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})

	logger.Debug("Connecting to hub...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io, opts: opts}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
}

// ID returns the socket session id.
func (c *Client) ID() string {
	return c.io.Id()
}

// Serve answers evaluate events with h until ctx is cancelled. Each request
// is handled on the goroutine the socket delivers it on.
func (c *Client) Serve(ctx context.Context, h *Handler) error {
	logger := ctxlog.FromContext(ctx)

	c.io.On(types.EventName(c.opts.EvaluateEvent), func(args ...any) {
		if len(args) == 0 {
			logger.Warn("Ignoring evaluate event without payload.")
			return
		}

		var progress func(Progress)
		if !c.opts.DisableProgress {
			progress = func(p Progress) {
				if err := c.io.Emit(c.opts.ProgressEvent, p); err != nil {
					logger.Debug("Failed to emit progress.", "error", err)
				}
			}
		}

		resp := h.Handle(ctx, args[0], progress)
		if err := c.io.Emit(c.opts.ResultEvent, resp); err != nil {
			logger.Error("Failed to emit result.", "requestID", resp.ID, "error", err)
		}
	})
	c.io.On(types.EventName("disconnect"), func(reason ...any) {
		logger.Warn("Disconnected from hub.", "reason", reason)
	})

	logger.Info("Serving evaluate requests.", "event", c.opts.EvaluateEvent)
	<-ctx.Done()
	return nil
}

// Close disconnects from the server.
func (c *Client) Close() error {
	c.io.Disconnect()
	return nil
}
