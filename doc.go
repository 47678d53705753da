// Package stakeledger provides a time-weighted staking ledger for Go
// applications.
//
// Accounts deposit a stake asset, and an admin funds a reward asset that is
// streamed at a constant per-second rate over a fixed period. Every account
// earns a share of the stream proportional to its stake multiplied by the
// time it was staked. Accounting is O(1) per operation: a global
// reward-per-stake-unit accumulator advances lazily and each account is
// settled against it whenever it is touched.
//
// Stakeledger is a library, not a service. Asset movement is delegated to a
// custody.Custody implementation; persistence to a store.Store (memory,
// PostgreSQL, SQLite or MongoDB).
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/stakeledger"
//	    "github.com/xraph/stakeledger/access"
//	    "github.com/xraph/stakeledger/store/memory"
//	)
//
//	l := stakeledger.New(memory.New(), vault,
//	    stakeledger.WithAssets(stakeAsset, rewardAsset),
//	    stakeledger.WithAccess(access.NewAdmins(admin)),
//	)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	// Fund a seven-day reward period
//	err := l.NotifyRewardAmount(ctx, admin, stakeledger.NewAmount(604_800))
//
//	// Stake, then claim later
//	err = l.Stake(ctx, alice, stakeledger.NewAmount(1_000))
//	reward, err := l.Claim(ctx, alice)
//
// # Precision
//
// Amounts are unsigned 256-bit integers in the smallest unit of their asset.
// The accumulator is scaled by 1e18 and every division floors, so the sum
// of rewards paid never exceeds what was funded.
//
// # Locking
//
// Withdraw and Exit are refused until MinStakingPeriod has elapsed since an
// account's anchor: the first stake after it last held zero principal.
// Topping up does not move the anchor. Claim is never locked.
//
// # TypeID
//
// Accounts, assets and events use TypeID identifiers:
//
//	acct_01h2xcejqtf2nbrexx3vqjhp41   // Account ID
//	asset_01h2xcejqtf2nbrexx3vqjhp41  // Asset ID
//	evt_01h455vb4pex5vsknk084sn02q    // Event ID
package stakeledger
