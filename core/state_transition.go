package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/state"
	"mcashchain/core/types"
	"mcashchain/crypto"
	"mcashchain/native/asset"
	"mcashchain/native/bank"
	nativecommon "mcashchain/native/common"
	"mcashchain/native/exchange"
	"mcashchain/native/governance"
	"mcashchain/native/params"
	"mcashchain/native/resource"
	"mcashchain/native/stake"
	"mcashchain/native/witness"
	"mcashchain/observability"
	telemetry "mcashchain/observability/otel"
)

var errUnsupported = fmt.Errorf("core: unsupported operation")

// StateProcessor applies blocks of operations against a single ledger
// overlay. It owns the overlay for the duration of a block and is not safe
// for concurrent use.
type StateProcessor struct {
	state  *state.Manager
	params *params.Store

	Bank       *bank.Engine
	Resource   *resource.Engine
	Stake      *stake.Engine
	Witness    *witness.Engine
	Asset      *asset.Engine
	Exchange   *exchange.Engine
	Governance *governance.Engine
	controller *stake.Controller

	events *events.Recorder
	logger *slog.Logger
	tracer trace.Tracer
}

// BlockResult is the outcome of ApplyBlock.
type BlockResult struct {
	Height  uint64
	Results []*types.Result
	Events  []*types.Event
	// Digest is the Merkle root of the committed write set.
	Digest common.Hash
}

// NewStateProcessor wires every native engine to the supplied state manager.
func NewStateProcessor(mgr *state.Manager, logger *slog.Logger) *StateProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	rec := &events.Recorder{}
	sp := &StateProcessor{
		state:      mgr,
		params:     params.NewStore(mgr),
		Bank:       bank.NewEngine(),
		Resource:   resource.NewEngine(),
		Stake:      stake.NewEngine(),
		Witness:    witness.NewEngine(),
		Asset:      asset.NewEngine(),
		Exchange:   exchange.NewEngine(),
		Governance: governance.NewEngine(),
		controller: stake.NewController(mgr),
		events:     rec,
		logger:     logger.With(slog.String("component", "state")),
		tracer:     telemetry.Tracer("core"),
	}
	sp.Bank.SetState(mgr)
	sp.Bank.SetEmitter(rec)
	sp.Resource.SetState(mgr)
	sp.Resource.SetEmitter(rec)
	sp.Stake.SetState(mgr)
	sp.Stake.SetEmitter(rec)
	sp.Witness.SetState(mgr)
	sp.Witness.SetEmitter(rec)
	sp.Asset.SetState(mgr)
	sp.Asset.SetEmitter(rec)
	sp.Exchange.SetState(mgr)
	sp.Exchange.SetEmitter(rec)
	sp.Governance.SetState(mgr)
	sp.Governance.SetEmitter(rec)
	sp.controller.SetEmitter(rec)
	return sp
}

// State exposes the underlying state manager.
func (sp *StateProcessor) State() *state.Manager { return sp.state }

// Params returns the persisted chain parameters.
func (sp *StateProcessor) Params() (*types.ChainParams, error) { return sp.params.Load() }

// Contract builds the two-phase handler for op.
func (sp *StateProcessor) Contract(env *nativecommon.Env, op *types.Operation) (nativecommon.Contract, error) {
	if op == nil || op.Payload == nil {
		return nil, errUnsupported
	}
	owner := []byte(op.Owner)
	switch p := op.Payload.(type) {
	case *types.TransferPayload:
		return sp.Bank.Transfer(env, owner, p), nil
	case *types.TransferAssetPayload:
		return sp.Bank.TransferAsset(env, owner, p), nil
	case *types.AccountCreatePayload:
		return sp.Bank.AccountCreate(env, owner, p), nil
	case *types.AccountUpdatePayload:
		return sp.Bank.AccountUpdate(env, owner, p), nil
	case *types.SetAccountIDPayload:
		return sp.Bank.SetAccountID(env, owner, p), nil
	case *types.FreezeBalancePayload:
		return sp.Resource.FreezeBalance(env, owner, p), nil
	case *types.UnfreezeBalancePayload:
		return sp.Resource.UnfreezeBalance(env, owner, p), nil
	case *types.StakePayload:
		return sp.Stake.Stake(env, owner, p), nil
	case *types.UnstakePayload:
		return sp.Stake.Unstake(env, owner, p), nil
	case *types.WithdrawRewardPayload:
		return sp.Stake.WithdrawReward(env, owner, p), nil
	case *types.WitnessCreatePayload:
		return sp.Witness.Create(env, owner, p), nil
	case *types.WitnessUpdatePayload:
		return sp.Witness.Update(env, owner, p), nil
	case *types.WitnessResignPayload:
		return sp.Witness.Resign(env, owner, p), nil
	case *types.VoteWitnessPayload:
		return sp.Witness.Vote(env, owner, p), nil
	case *types.AssetIssuePayload:
		return sp.Asset.Issue(env, owner, p), nil
	case *types.ParticipateAssetIssuePayload:
		return sp.Asset.Participate(env, owner, p), nil
	case *types.UnfreezeAssetPayload:
		return sp.Asset.Unfreeze(env, owner, p), nil
	case *types.UpdateAssetPayload:
		return sp.Asset.Update(env, owner, p), nil
	case *types.ExchangeCreatePayload:
		return sp.Exchange.Create(env, owner, p), nil
	case *types.ExchangeInjectPayload:
		return sp.Exchange.Inject(env, owner, p), nil
	case *types.ExchangeWithdrawPayload:
		return sp.Exchange.Withdraw(env, owner, p), nil
	case *types.ExchangeTransactionPayload:
		return sp.Exchange.Trade(env, owner, p), nil
	case *types.ProposalCreatePayload:
		return sp.Governance.Create(env, owner, p), nil
	case *types.ProposalApprovePayload:
		return sp.Governance.Approve(env, owner, p), nil
	case *types.ProposalDeletePayload:
		return sp.Governance.Delete(env, owner, p), nil
	default:
		return nil, errUnsupported
	}
}

// ApplyOperation validates and executes a single operation. A failed
// operation leaves the overlay, the parameters and the event buffer exactly as
// they were before the call. The returned Result is never nil.
func (sp *StateProcessor) ApplyOperation(env *nativecommon.Env, op *types.Operation) *types.Result {
	started := time.Now()
	opName := "unknown"
	if op != nil && op.Payload != nil {
		opName = op.Payload.OpType().String()
	}

	res := sp.applyOperation(env, op, opName)
	observability.Execution().ObserveOperation(opName, res.Code.String(), res.Fee, time.Since(started))
	return res
}

func (sp *StateProcessor) applyOperation(env *nativecommon.Env, op *types.Operation, opName string) *types.Result {
	contract, err := sp.Contract(env, op)
	if err != nil {
		return &types.Result{Code: types.CodeUnsupported, Message: err.Error()}
	}

	snapshot := sp.state.Snapshot()
	savedParams := *env.Params
	mark := sp.events.Len()
	revert := func() {
		sp.state.RevertToSnapshot(snapshot)
		*env.Params = savedParams
		sp.events.Truncate(mark)
	}

	if err := contract.Validate(); err != nil {
		revert()
		if coreerrors.IsValidation(err) {
			sp.logger.Debug("operation rejected",
				slog.String("operation", opName),
				slog.String("owner", ownerString(op.Owner)),
				slog.String("reason", err.Error()))
			return &types.Result{Code: types.CodeValidationFailed, Message: err.Error()}
		}
		sp.anomaly(opName, op, err)
		return &types.Result{Code: types.CodeExecutionFailed, Message: coreerrors.Message(err)}
	}

	res := &types.Result{}
	if err := contract.Execute(res); err != nil {
		revert()
		sp.anomaly(opName, op, err)
		return &types.Result{Code: types.CodeExecutionFailed, Message: coreerrors.Message(err)}
	}
	res.Code = types.CodeSuccess
	return res
}

func (sp *StateProcessor) anomaly(opName string, op *types.Operation, err error) {
	observability.Execution().RecordAnomaly(opName)
	sp.logger.Error("execution anomaly",
		slog.String("operation", opName),
		slog.String("owner", ownerString(op.Owner)),
		slog.Any("error", err))
}

// ApplyBlock applies every operation of block in order, runs the stake epoch
// controller, persists the chain parameters and commits the overlay in one
// batch. Operation failures are reported in the results and never abort the
// block. Any other error discards the whole block.
func (sp *StateProcessor) ApplyBlock(ctx context.Context, block *types.Block) (result *BlockResult, err error) {
	if block == nil || block.Header == nil {
		return nil, fmt.Errorf("core: block header required")
	}
	header := block.Header
	started := time.Now()
	ctx, span := sp.tracer.Start(ctx, "core.ApplyBlock", trace.WithAttributes(
		attribute.Int64("block.height", int64(header.Height)),
		attribute.Int("block.operations", len(block.Operations)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			sp.state.Discard()
			sp.events.Truncate(0)
		}
		span.End()
		observability.Execution().ObserveBlock(err, time.Since(started))
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cp, err := sp.params.Load()
	if err != nil {
		return nil, err
	}
	if header.Height <= uint64(cp.LatestBlockHeaderNumber) {
		return nil, fmt.Errorf("core: block %d is not above head %d", header.Height, cp.LatestBlockHeaderNumber)
	}
	if header.Timestamp < cp.LatestBlockHeaderTimestamp {
		return nil, fmt.Errorf("core: block %d timestamp %d precedes head %d",
			header.Height, header.Timestamp, cp.LatestBlockHeaderTimestamp)
	}
	env := &nativecommon.Env{Params: cp, Now: header.Timestamp, Height: header.Height}

	results := make([]*types.Result, len(block.Operations))
	for i, op := range block.Operations {
		results[i] = sp.ApplyOperation(env, op)
	}

	if _, err := sp.controller.Process(env); err != nil {
		return nil, fmt.Errorf("core: stake epoch: %w", err)
	}
	if cp.AdvanceMaintenance(header.Timestamp) {
		sp.logger.Debug("maintenance boundary crossed",
			slog.Uint64("height", header.Height),
			slog.Int64("nextMaintenanceTime", cp.NextMaintenanceTime))
	}
	cp.LatestBlockHeaderNumber = int64(header.Height)
	cp.LatestBlockHeaderTimestamp = header.Timestamp
	if err := sp.params.Save(cp); err != nil {
		return nil, err
	}

	digest, err := sp.state.Commit()
	if err != nil {
		return nil, err
	}
	committed := sp.events.Drain()
	for _, evt := range committed {
		observability.Events().RecordEvent(evt.Type)
	}

	succeeded := 0
	for _, res := range results {
		if res.Succeeded() {
			succeeded++
		}
	}
	span.SetAttributes(
		attribute.Int("block.succeeded", succeeded),
		attribute.String("block.digest", digest.Hex()),
	)
	sp.logger.Info("block applied",
		slog.Uint64("height", header.Height),
		slog.Int("operations", len(results)),
		slog.Int("succeeded", succeeded),
		slog.String("digest", digest.Hex()))

	return &BlockResult{
		Height:  header.Height,
		Results: results,
		Events:  committed,
		Digest:  digest,
	}, nil
}

func ownerString(raw []byte) string {
	if addr, ok := nativecommon.ParseAddress(raw); ok {
		return crypto.FromCommon(addr).String()
	}
	return fmt.Sprintf("%x", raw)
}
