// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Krupin

package store

const (
	appendMutation = `
		INSERT INTO mutation_queue (
			idempotency_key,
			operation_type,
			payload,
			temp_id,
			created_at,
			retry_count,
			status,
			last_attempt_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	listActiveMutations = `
		SELECT
			id,
			idempotency_key,
			operation_type,
			payload,
			temp_id,
			created_at,
			retry_count,
			status,
			last_attempt_at
		FROM mutation_queue
		WHERE status IN ('pending', 'syncing')
		ORDER BY id;`

	listAllMutations = `
		SELECT
			id,
			idempotency_key,
			operation_type,
			payload,
			temp_id,
			created_at,
			retry_count,
			status,
			last_attempt_at
		FROM mutation_queue
		ORDER BY id;`

	getMutation = `
		SELECT
			id,
			idempotency_key,
			operation_type,
			payload,
			temp_id,
			created_at,
			retry_count,
			status,
			last_attempt_at
		FROM mutation_queue
		WHERE id = $1;`

	updateMutationStatus = `
		UPDATE mutation_queue SET status = $1 WHERE id = $2;`

	incrementMutationRetry = `
		UPDATE mutation_queue
		SET retry_count = retry_count + 1, last_attempt_at = $1
		WHERE id = $2;`

	getMutationRetry = `
		SELECT retry_count FROM mutation_queue WHERE id = $1;`

	resetMutationRetry = `
		UPDATE mutation_queue
		SET retry_count = 0, status = 'pending', last_attempt_at = NULL
		WHERE id = $1;`

	removeMutation = `
		DELETE FROM mutation_queue WHERE id = $1;`

	selectPayloadsForRewrite = `
		SELECT id, payload FROM mutation_queue WHERE status != 'failed';`

	updateMutationPayload = `
		UPDATE mutation_queue SET payload = $1 WHERE id = $2;`

	countActiveMutations = `
		SELECT COUNT(*) FROM mutation_queue WHERE status IN ('pending', 'syncing');`

	clearMutations = `
		DELETE FROM mutation_queue;`

	saveSession = `
		INSERT INTO session (id, login, token, created_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			login      = excluded.login,
			token      = excluded.token,
			created_at = excluded.created_at;`

	getSession = `
		SELECT login, token, created_at FROM session WHERE id = 1;`

	deleteSession = `
		DELETE FROM session;`
)
