package httpServer

import (
	performerV1 "github.com/Layr-Labs/protocol-apis/gen/protos/eigenlayer/hourglass/v1/performer"
	"github.com/tony1908/pear2pear/pkg/util"
)

// Task is the JSON body of POST /tasks. Payload is the base64 encoded trigger envelope.
type Task struct {
	TaskID  string `json:"taskId"`
	Payload string `json:"payload"`
}

func (t *Task) GetPayloadBytes() ([]byte, error) {
	return util.DecodeBase64String(t.Payload)
}

func (t *Task) ToTaskRequest() (*performerV1.TaskRequest, error) {
	payload, err := t.GetPayloadBytes()
	if err != nil {
		return nil, err
	}
	return &performerV1.TaskRequest{
		TaskId:  []byte(t.TaskID),
		Payload: payload,
	}, nil
}

// TaskResult carries the base64 encoded abi.encode(DataWithId).
type TaskResult struct {
	TaskID string `json:"taskId"`
	Result string `json:"result"`
}

func NewTaskResult(taskID string, result []byte) *TaskResult {
	return &TaskResult{
		TaskID: taskID,
		Result: util.EncodeBase64String(result),
	}
}

func (tr *TaskResult) GetResultBytes() ([]byte, error) {
	return util.DecodeBase64String(tr.Result)
}
