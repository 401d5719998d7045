package performerClient

import (
	"context"
	"fmt"

	performerV1 "github.com/Layr-Labs/protocol-apis/gen/protos/eigenlayer/hourglass/v1/performer"
	healthV1 "github.com/Layr-Labs/protocol-apis/gen/protos/grpc/health/v1"
	"github.com/google/uuid"
	"github.com/tony1908/pear2pear/pkg/clients"
	"github.com/tony1908/pear2pear/pkg/triggerCodec"
	"google.golang.org/grpc"
)

type PerformerClient struct {
	HealthClient    healthV1.HealthClient
	PerformerClient performerV1.PerformerServiceClient
	conn            *grpc.ClientConn
}

func NewPerformerClient(fullUrl string, insecureConn bool) (*PerformerClient, error) {
	grpcClient, err := clients.NewGrpcClient(fullUrl, insecureConn)
	if err != nil {
		return nil, err
	}

	return NewPerformerClientWithConn(grpcClient)
}

func NewPerformerClientWithConn(conn *grpc.ClientConn) (*PerformerClient, error) {
	if conn == nil {
		return nil, fmt.Errorf("connection cannot be nil")
	}
	hc := healthV1.NewHealthClient(conn)
	pc := performerV1.NewPerformerServiceClient(conn)

	return &PerformerClient{
		HealthClient:    hc,
		PerformerClient: pc,
		conn:            conn,
	}, nil
}

func (pc *PerformerClient) Close() error {
	return pc.conn.Close()
}

// IsServing reports whether the performer's health service answers SERVING.
func (pc *PerformerClient) IsServing(ctx context.Context) (bool, error) {
	res, err := pc.HealthClient.Check(ctx, &healthV1.HealthCheckRequest{})
	if err != nil {
		return false, err
	}
	return res.Status == healthV1.HealthCheckResponse_SERVING, nil
}

// ExecuteTrigger submits a trigger envelope as a task and decodes the returned result.
func (pc *PerformerClient) ExecuteTrigger(
	ctx context.Context,
	action *triggerCodec.TriggerAction,
) (*triggerCodec.DataWithId, *triggerCodec.AvsOutputData, error) {
	payload, err := triggerCodec.MarshalTriggerAction(action)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal trigger action: %w", err)
	}

	res, err := pc.PerformerClient.ExecuteTask(ctx, &performerV1.TaskRequest{
		TaskId:  []byte(uuid.New().String()),
		Payload: payload,
	})
	if err != nil {
		return nil, nil, err
	}

	outer, err := triggerCodec.DecodeDataWithId(res.Result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode task result: %w", err)
	}
	inner, err := triggerCodec.DecodeAvsOutputData(outer.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode task result data: %w", err)
	}
	return outer, inner, nil
}
