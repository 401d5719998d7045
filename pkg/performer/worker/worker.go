package worker

import (
	"context"
	"fmt"

	performerV1 "github.com/Layr-Labs/protocol-apis/gen/protos/eigenlayer/hourglass/v1/performer"
	"github.com/tony1908/pear2pear/pkg/oracle"
	"go.uber.org/zap"
)

type IWorker interface {
	ValidateTask(task *performerV1.TaskRequest) error
	HandleTask(ctx context.Context, task *performerV1.TaskRequest) (*performerV1.TaskResponse, error)
}

// OracleWorker treats each task payload as a JSON trigger envelope and returns the
// ABI encoded verdict as the task result.
type OracleWorker struct {
	oracle *oracle.Oracle
	logger *zap.Logger
}

func NewOracleWorker(o *oracle.Oracle, logger *zap.Logger) *OracleWorker {
	return &OracleWorker{
		oracle: o,
		logger: logger,
	}
}

func (ow *OracleWorker) ValidateTask(task *performerV1.TaskRequest) error {
	if task == nil {
		return fmt.Errorf("task is nil")
	}
	if len(task.TaskId) == 0 {
		return fmt.Errorf("task id is empty")
	}
	if len(task.Payload) == 0 {
		return fmt.Errorf("task payload is empty")
	}
	return nil
}

func (ow *OracleWorker) HandleTask(ctx context.Context, task *performerV1.TaskRequest) (*performerV1.TaskResponse, error) {
	ow.logger.Sugar().Debugw("Handling task",
		zap.String("taskId", string(task.TaskId)),
		zap.Int("payloadSize", len(task.Payload)),
	)

	result, err := ow.oracle.Run(ctx, task.Payload)
	if err != nil {
		return nil, err
	}

	return &performerV1.TaskResponse{
		TaskId: task.TaskId,
		Result: result,
	}, nil
}
