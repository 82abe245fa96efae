// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/toeirei/mintmaster/core/security"
	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/keypair"
	"github.com/toeirei/mintmaster/internal/logging"
)

const (
	defaultTimeout      = 60 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

// rpcAPI is the subset of *client.Client used here.
type rpcAPI interface {
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	GetAccountInfo(ctx context.Context, base58Addr string) (client.AccountInfo, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
	GetSignatureStatus(ctx context.Context, signature string) (*rpc.SignatureStatus, error)
}

var _ rpcAPI = (*client.Client)(nil)

// SolanaClient submits transactions through a JSON-RPC endpoint and waits
// for the configured commitment.
type SolanaClient struct {
	rpc          rpcAPI
	endpoint     string
	commitment   rpc.Commitment
	timeout      time.Duration
	pollInterval time.Duration
}

// NewSolanaClient creates a client for endpoint. A zero timeout means 60s.
func NewSolanaClient(endpoint string, commitment rpc.Commitment, timeout time.Duration) *SolanaClient {
	return newSolanaClient(client.NewClient(endpoint), endpoint, commitment, timeout)
}

func newSolanaClient(api rpcAPI, endpoint string, commitment rpc.Commitment, timeout time.Duration) *SolanaClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &SolanaClient{
		rpc:          api,
		endpoint:     endpoint,
		commitment:   commitment,
		timeout:      timeout,
		pollInterval: defaultPollInterval,
	}
}

// Endpoint returns the RPC URL.
func (c *SolanaClient) Endpoint() string { return c.endpoint }

// CreateMintAccount creates and initializes a fresh mint account in one
// transaction signed by payer and the new mint.
func (c *SolanaClient) CreateMintAccount(ctx context.Context, payer *keypair.Keypair, mintAuthority addr.Address, freezeAuthority *addr.Address, decimals uint8) (addr.Address, error) {
	feePayer, err := toAccount(payer)
	if err != nil {
		return addr.Zero, err
	}
	defer security.Wipe(feePayer.PrivateKey)

	mint := types.NewAccount()
	defer security.Wipe(mint.PrivateKey)

	rent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return addr.Zero, classify("GetMinimumBalanceForRentExemption", err)
	}

	var freeze *common.PublicKey
	if freezeAuthority != nil {
		pk := common.PublicKey(*freezeAuthority)
		freeze = &pk
	}

	log := logging.Component("ledger")
	log.Debug("creating mint", "mint", addr.MaskShort(mint.PublicKey.ToBase58()), "decimals", decimals, "rent", rent)

	conf, err := c.send(ctx, "create mint", []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     feePayer.PublicKey,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   decimals,
			Mint:       mint.PublicKey,
			MintAuth:   common.PublicKey(mintAuthority),
			FreezeAuth: freeze,
		}),
	}, feePayer, mint)
	if err != nil {
		return addr.Zero, err
	}
	log.Info("mint created", "mint", addr.MaskShort(mint.PublicKey.ToBase58()), "tx", addr.MaskShort(conf.Signature))
	return addr.Address(mint.PublicKey), nil
}

// DeriveAssociatedAddress returns the associated token account address.
func (c *SolanaClient) DeriveAssociatedAddress(owner, mint addr.Address) (addr.Address, error) {
	return DeriveAssociatedAddress(owner, mint)
}

// EnsureAssociatedAccount creates the associated token account when the
// cluster has no account at the derived address.
func (c *SolanaClient) EnsureAssociatedAccount(ctx context.Context, payer *keypair.Keypair, mint, owner addr.Address) (addr.Address, error) {
	ata, err := DeriveAssociatedAddress(owner, mint)
	if err != nil {
		return addr.Zero, apperr.Network("derive associated account", err)
	}
	exists, err := c.accountExists(ctx, ata)
	if err != nil {
		return addr.Zero, classify("GetAccountInfo", err)
	}
	if exists {
		return ata, nil
	}

	funder, err := toAccount(payer)
	if err != nil {
		return addr.Zero, err
	}
	defer security.Wipe(funder.PrivateKey)

	logging.Component("ledger").Info("creating associated token account",
		"owner", owner.Short(), "mint", mint.Short(), "ata", ata.Short())
	_, err = c.send(ctx, "create associated account", []types.Instruction{
		associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 funder.PublicKey,
			Owner:                  common.PublicKey(owner),
			Mint:                   common.PublicKey(mint),
			AssociatedTokenAccount: common.PublicKey(ata),
		}),
	}, funder)
	if err != nil {
		return addr.Zero, err
	}
	return ata, nil
}

// MintTo mints raw base units to destination with authority as signer and
// fee payer.
func (c *SolanaClient) MintTo(ctx context.Context, mint, destination addr.Address, authority *keypair.Keypair, raw uint64) (Confirmation, error) {
	auth, err := toAccount(authority)
	if err != nil {
		return Confirmation{}, err
	}
	defer security.Wipe(auth.PrivateKey)

	conf, err := c.send(ctx, "mint to", []types.Instruction{
		token.MintTo(token.MintToParam{
			Mint:   common.PublicKey(mint),
			To:     common.PublicKey(destination),
			Auth:   auth.PublicKey,
			Amount: raw,
		}),
	}, auth)
	if err != nil {
		return Confirmation{}, err
	}
	logging.Component("ledger").Info("minted", "mint", mint.Short(), "to", destination.Short(), "raw", raw, "tx", addr.MaskShort(conf.Signature))
	return conf, nil
}

// Close is a no-op; the JSON-RPC client holds no connection.
func (c *SolanaClient) Close() error { return nil }

// send signs instructions with signers (the first pays fees), submits them
// and waits for confirmation.
func (c *SolanaClient) send(ctx context.Context, op string, ixs []types.Instruction, signers ...types.Account) (Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	latest, err := c.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return Confirmation{}, classify(op+": GetLatestBlockhash", err)
	}
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: signers,
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signers[0].PublicKey,
			RecentBlockhash: latest.Blockhash,
			Instructions:    ixs,
		}),
	})
	if err != nil {
		return Confirmation{}, fmt.Errorf("%s: NewTransaction: %w", op, err)
	}
	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return Confirmation{}, classify(op+": SendTransaction", err)
	}
	logging.Component("ledger").Debug("submitted", "op", op, "tx", addr.MaskShort(sig))
	return c.confirm(ctx, op, sig)
}

// confirm polls the signature status until the configured commitment is
// reached, the transaction fails or ctx expires.
func (c *SolanaClient) confirm(ctx context.Context, op, sig string) (Confirmation, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	want := commitmentRank(c.commitment)
	for {
		st, err := c.rpc.GetSignatureStatus(ctx, sig)
		if err != nil && ctx.Err() == nil {
			logging.Component("ledger").Debug("status poll failed", "tx", addr.MaskShort(sig), "err", err)
		}
		if err == nil && st != nil {
			if st.Err != nil {
				return Confirmation{}, classify(op, fmt.Errorf("transaction %s failed: %s", sig, statusError(st.Err)))
			}
			if st.ConfirmationStatus != nil && commitmentRank(*st.ConfirmationStatus) >= want {
				return Confirmation{Signature: sig, Slot: st.Slot, Commitment: string(*st.ConfirmationStatus)}, nil
			}
		}
		select {
		case <-ctx.Done():
			return Confirmation{}, apperr.Network(op, fmt.Errorf("transaction %s not confirmed: %w", sig, ctx.Err()))
		case <-ticker.C:
		}
	}
}

// statusError renders a transaction status error. Custom program errors
// are spelled the way preflight reports them so classify treats both alike.
func statusError(e any) string {
	if m, ok := e.(map[string]any); ok {
		if ie, ok := m["InstructionError"].([]any); ok && len(ie) == 2 {
			if c, ok := ie[1].(map[string]any); ok {
				switch n := c["Custom"].(type) {
				case float64:
					return fmt.Sprintf("instruction %v: custom program error: 0x%x", ie[0], uint64(n))
				case int:
					return fmt.Sprintf("instruction %v: custom program error: 0x%x", ie[0], n)
				}
			}
		}
	}
	return fmt.Sprintf("%v", e)
}

// accountExists treats an empty account info as absent, like the RPC's
// null value.
func (c *SolanaClient) accountExists(ctx context.Context, a addr.Address) (bool, error) {
	info, err := c.rpc.GetAccountInfo(ctx, a.String())
	if err == nil {
		return info.Owner != (common.PublicKey{}) || info.Lamports > 0, nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") ||
		strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "account does not exist") {
		return false, nil
	}
	return false, err
}

// toAccount converts the session keypair into a blocto signer. Callers wipe
// the returned private key.
func toAccount(kp *keypair.Keypair) (types.Account, error) {
	if kp.IsZero() {
		return types.Account{}, apperr.ErrNoKeypair
	}
	var acc types.Account
	err := kp.UseSecret(func(b []byte) error {
		var err error
		// AccountFromBytes keeps the slice it is given.
		acc, err = types.AccountFromBytes(append([]byte(nil), b...))
		return err
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNoKeypair) {
			return types.Account{}, err
		}
		return types.Account{}, fmt.Errorf("%w: %v", apperr.ErrInvalidKeyFormat, err)
	}
	return acc, nil
}
