package server

import (
	"context"

	performerV1 "github.com/Layr-Labs/protocol-apis/gen/protos/eigenlayer/hourglass/v1/performer"
	healthV1 "github.com/Layr-Labs/protocol-apis/gen/protos/grpc/health/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (op *OraclePerformer) ExecuteTask(ctx context.Context, task *performerV1.TaskRequest) (*performerV1.TaskResponse, error) {
	if err := op.taskWorker.ValidateTask(task); err != nil {
		op.logger.Sugar().Errorw("Task is invalid",
			zap.String("taskId", string(task.GetTaskId())),
			zap.Error(err),
		)
		return nil, status.Errorf(codes.InvalidArgument, "task is invalid: %s", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, op.config.Timeout)
	defer cancel()

	res, err := op.taskWorker.HandleTask(ctx, task)
	if err != nil {
		op.logger.Sugar().Errorw("Failed to handle task",
			zap.String("taskId", string(task.TaskId)),
			zap.Error(err),
		)
		return nil, status.Errorf(codes.InvalidArgument, "failed to handle task: %s", err.Error())
	}

	return &performerV1.TaskResponse{
		TaskId: task.TaskId,
		Result: res.Result,
	}, nil
}

func (op *OraclePerformer) Check(ctx context.Context, request *healthV1.HealthCheckRequest) (*healthV1.HealthCheckResponse, error) {
	return &healthV1.HealthCheckResponse{
		Status: healthV1.HealthCheckResponse_SERVING,
	}, nil
}

func (op *OraclePerformer) Watch(request *healthV1.HealthCheckRequest, g grpc.ServerStreamingServer[healthV1.HealthCheckResponse]) error {
	return status.Errorf(codes.Unimplemented, "Watch method is not implemented")
}

func (op *OraclePerformer) StartSync(ctx context.Context, request *performerV1.StartSyncRequest) (*performerV1.StartSyncResponse, error) {
	return &performerV1.StartSyncResponse{}, nil
}
