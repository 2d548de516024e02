package witness

import (
	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var (
	errInvalidWitness = coreerrors.Validation("Invalid witness address")
	errWitnessMissing = coreerrors.Validation("Witness does not exist")
	errNotController  = coreerrors.Validation("Account does not control this witness")
)

// asValidation keeps sentinel validation errors and wraps storage failures.
func asValidation(err error) error {
	if coreerrors.IsValidation(err) {
		return err
	}
	return coreerrors.Execution(err)
}

type createContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.WitnessCreatePayload

	account *types.Account
	address common.Address
	fee     int64
}

func (c *createContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	params := c.env.Params
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	addr := account.Address
	if len(c.payload.Witness) > 0 {
		parsed, ok := nativecommon.ParseAddress(c.payload.Witness)
		if !ok {
			return errInvalidWitness
		}
		addr = parsed
	}
	if !nativecommon.ValidURL(c.payload.URL) {
		return coreerrors.Validation("Invalid url")
	}
	if account.HasWitness() {
		return coreerrors.Validationf("Account[%x] already controls witness[%x]",
			account.Address.Bytes(), account.Witness.Bytes())
	}
	existing, err := state.GetWitness(addr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if existing != nil {
		return coreerrors.Validationf("Witness[%x] has existed", addr.Bytes())
	}
	fee := params.AccountUpgradeCost
	if account.Balance < fee {
		return coreerrors.Validation("balance < AccountUpgradeCost")
	}
	if account.NormalStake < params.WitnessStakeAmount {
		return coreerrors.Validationf("Witness stake must be at least %d MCASH",
			params.WitnessStakeAmount/types.Precision)
	}
	if _, err := nativecommon.AddExact(account.WitnessStake, params.WitnessStakeAmount); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.address, c.fee = account, addr, fee
	return nil
}

func (c *createContract) Execute(res *types.Result) error {
	state := c.engine.state
	stake := c.env.Params.WitnessStakeAmount
	var err error
	if c.account.Balance, err = nativecommon.SubExact(c.account.Balance, c.fee); err != nil {
		return coreerrors.Execution(err)
	}
	if c.account.NormalStake, err = nativecommon.SubExact(c.account.NormalStake, stake); err != nil {
		return coreerrors.Execution(err)
	}
	if c.account.WitnessStake, err = nativecommon.AddExact(c.account.WitnessStake, stake); err != nil {
		return coreerrors.Execution(err)
	}
	c.account.Witness = c.address
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	w := &types.Witness{
		Address:    c.address,
		Owner:      c.account.Address,
		URL:        c.payload.URL,
		Status:     types.WitnessActive,
		CreateTime: c.env.Now,
	}
	if err := state.PutWitness(w); err != nil {
		return coreerrors.Execution(err)
	}
	if err := nativecommon.BurnFee(state, c.env, c.fee, res); err != nil {
		return err
	}
	if c.fee > 0 {
		c.engine.emit(events.FeeBurned{Payer: c.account.Address, Amount: c.fee})
	}
	c.engine.emit(events.WitnessChanged{
		Kind:    events.TypeWitnessCreated,
		Witness: w.Address,
		Owner:   w.Owner,
		URL:     w.URL,
	})
	return nil
}

type updateContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.WitnessUpdatePayload

	witness *types.Witness
}

func (c *updateContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	if !nativecommon.ValidURL(c.payload.URL) {
		return coreerrors.Validation("Invalid url")
	}
	w, err := loadControlled(state, account, c.payload.Witness)
	if err != nil {
		return asValidation(err)
	}
	if w.Status == types.WitnessResigned {
		return coreerrors.Validation("Witness has resigned")
	}
	c.witness = w
	return nil
}

func (c *updateContract) Execute(*types.Result) error {
	c.witness.URL = c.payload.URL
	if err := c.engine.state.PutWitness(c.witness); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.WitnessChanged{
		Kind:    events.TypeWitnessUpdated,
		Witness: c.witness.Address,
		Owner:   c.witness.Owner,
		URL:     c.witness.URL,
	})
	return nil
}

type resignContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.WitnessResignPayload

	account *types.Account
	witness *types.Witness
}

func (c *resignContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	w, err := loadControlled(state, account, c.payload.Witness)
	if err != nil {
		return asValidation(err)
	}
	if w.Status == types.WitnessResigned {
		return coreerrors.Validation("Witness has resigned")
	}
	if _, err := nativecommon.AddExact(account.NormalStake, account.WitnessStake); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.witness = account, w
	return nil
}

// Existing votes are left on the resigned witness until voters move them.
func (c *resignContract) Execute(*types.Result) error {
	state := c.engine.state
	var err error
	if c.account.NormalStake, err = nativecommon.AddExact(c.account.NormalStake, c.account.WitnessStake); err != nil {
		return coreerrors.Execution(err)
	}
	c.account.WitnessStake = 0
	c.account.Witness = common.Address{}
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	c.witness.Status = types.WitnessResigned
	if err := state.PutWitness(c.witness); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.WitnessChanged{
		Kind:    events.TypeWitnessResigned,
		Witness: c.witness.Address,
		Owner:   c.witness.Owner,
	})
	return nil
}
