package clients

import (
	"crypto/tls"
	"fmt"
	"math"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// NewGrpcClient creates a lazily connecting client. Loopback addresses always use
// plaintext; everything else uses TLS unless insecureConn is set.
func NewGrpcClient(url string, insecureConn bool, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}

	var creds grpc.DialOption
	if isLoopback(url) || insecureConn {
		creds = grpc.WithTransportCredentials(insecure.NewCredentials())
	} else {
		creds = grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{InsecureSkipVerify: false}))
	}

	dialOpts := []grpc.DialOption{
		creds,
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(math.MaxInt32)),
		grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(math.MaxInt32)),
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(url, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", url, err)
	}
	return conn, nil
}

func isLoopback(url string) bool {
	return strings.Contains(url, "localhost:") || strings.Contains(url, "127.0.0.1:")
}
