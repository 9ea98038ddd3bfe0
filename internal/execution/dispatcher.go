package execution

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/gowebpki/jcs"

	clierr "github.com/eoscanada/shine-bot/internal/errors"
	"github.com/eoscanada/shine-bot/internal/out"
)

// Dispatcher serializes transactions and hands them to the Executor, one at
// a time.
type Dispatcher struct {
	Exec        Executor
	Store       *Store
	Out         io.Writer
	ForceUnique bool
	RunID       string
	Logger      *slog.Logger
}

// EncodePayload renders the action data as canonical JSON.
func EncodePayload(data map[string]any) ([]byte, error) {
	if data == nil {
		return nil, clierr.New(clierr.CodeInternal, "encode payload: missing data")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "encode payload", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "canonicalize payload", err)
	}
	return canonical, nil
}

// PushArgs builds the cleos argument list for a transaction.
func PushArgs(tx Transaction, payload []byte, forceUnique bool) []string {
	args := []string{"push", "action", tx.Contract, tx.Action, string(payload)}
	if forceUnique {
		args = append(args, "--force-unique")
	}
	return append(args, "--permission", tx.Contract+"@active")
}

func (d *Dispatcher) Dispatch(ctx context.Context, tx Transaction) (Result, error) {
	if d.Exec == nil {
		return Result{}, clierr.New(clierr.CodeInternal, "dispatcher has no executor")
	}
	if tx.Contract == "" || tx.Action == "" {
		return Result{}, clierr.New(clierr.CodeInternal, "transaction is missing contract or action")
	}
	payload, err := EncodePayload(tx.Data)
	if err != nil {
		return Result{}, err
	}
	if err := d.echo(payload); err != nil {
		return Result{}, clierr.Wrap(clierr.CodeInternal, "write payload", err)
	}

	sub := NewSubmission(d.RunID, tx, payload)
	d.record(&sub, SubmissionStatusPlanned)
	d.record(&sub, SubmissionStatusRunning)

	res, err := d.Exec.Execute(ctx, PushArgs(tx, payload, d.ForceUnique))
	if err != nil {
		sub.ExitStatus = res.ExitStatus
		sub.Error = err.Error()
		d.record(&sub, SubmissionStatusFailed)
		return res, err
	}
	d.record(&sub, SubmissionStatusCompleted)

	if d.Out != nil && len(res.Stdout) > 0 {
		if _, err := d.Out.Write(res.Stdout); err != nil {
			return res, clierr.Wrap(clierr.CodeInternal, "write tool output", err)
		}
	}
	return res, nil
}

func (d *Dispatcher) echo(payload []byte) error {
	if d.Out == nil {
		return nil
	}
	return out.Payload(d.Out, "Data", payload)
}

func (d *Dispatcher) record(sub *Submission, status SubmissionStatus) {
	if d.Store == nil {
		return
	}
	sub.Status = status
	sub.Touch()
	if err := d.Store.Save(*sub); err != nil {
		d.logger().Warn("journal write failed", "submission", sub.SubmissionID, "error", err)
	}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
