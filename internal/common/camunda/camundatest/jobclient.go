// Package camundatest provides an in-memory worker.JobClient whose commands
// are recorded instead of sent to a gateway.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"google.golang.org/grpc"
)

// Sent is one recorded command together with the state of its context at send time.
type Sent struct {
	JobKey       int64
	Retries      int32
	ErrorCode    string
	ErrorMessage string
	Variables    string
	CtxErr       error
}

// Gateway records complete, fail and throw requests. Like a real connection it
// refuses to send on a context that is already done.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []Sent
	failed    []Sent
	thrown    []Sent
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	g.completed = append(g.completed, Sent{JobKey: in.GetJobKey(), Variables: in.GetVariables(), CtxErr: ctx.Err()})
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	g.failed = append(g.failed, Sent{
		JobKey:       in.GetJobKey(),
		Retries:      in.GetRetries(),
		ErrorMessage: in.GetErrorMessage(),
		Variables:    in.GetVariables(),
		CtxErr:       ctx.Err(),
	})
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	g.thrown = append(g.thrown, Sent{
		JobKey:       in.GetJobKey(),
		ErrorCode:    in.GetErrorCode(),
		ErrorMessage: in.GetErrorMessage(),
		Variables:    in.GetVariables(),
		CtxErr:       ctx.Err(),
	})
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &pb.ThrowErrorResponse{}, nil
}

func (g *Gateway) Completed() []Sent { return g.snapshot(&g.completed) }
func (g *Gateway) Failed() []Sent    { return g.snapshot(&g.failed) }
func (g *Gateway) Thrown() []Sent    { return g.snapshot(&g.thrown) }

func (g *Gateway) snapshot(list *[]Sent) []Sent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Sent(nil), (*list)...)
}

// JobClient builds real zeebe commands on top of a recording Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// NewJob builds an activated job carrying variables.
func NewJob(key int64, taskType string, retries int32, variables map[string]interface{}) entities.Job {
	raw, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "assistant-process",
		ElementId:          "Activity_" + taskType,
		CustomHeaders:      "{}",
		Retries:            retries,
		Variables:          string(raw),
	}}
}

// Variables decodes a recorded variables document.
func Variables(s Sent) map[string]interface{} {
	out := map[string]interface{}{}
	_ = json.Unmarshal([]byte(s.Variables), &out)
	return out
}
