// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package branchscript folds a fixed, ordered set of alternative locking scripts
into a single branch-selecting redeem script and assembles the signature
scripts that spend it through exactly one of those branches.

# Combined Script

Given branch scripts S0..Sn-1 the combined script is built left leaning, each
newly added branch becoming the ELSE arm wrapped around everything added
before it:

	n = 1: S0
	n = 2: OP_IF S0 OP_ELSE S1 OP_ENDIF
	n = 3: OP_IF OP_IF S0 OP_ELSE S1 OP_ENDIF OP_ELSE S2 OP_ENDIF

The same tree description (Shape) drives both the fold and the path
computation, so the decisions produced for branch i always route execution to
the script folded in at position i.

# Spending

An Assembler wraps the transaction under construction.  For every input that
spends a combined script the caller selects a branch, contributes one or more
signatures and finally calls Finalize, which produces

	<branch unlock data> <path decisions, innermost first> <combined script>

The branch unlock data is produced by an Unlocker chosen by the branch kind.
Pay-to-pubkey-hash, pay-to-pubkey and bare multisig branches are supported out
of the box and RegisterUnlocker extends the catalog.

# Errors

Every misuse of the composer or the assembler is reported as an Error with an
ErrorCode.  Missing multisig signatures are not detected here; the script
engine rejects such a spend when it is validated.
*/
package branchscript
