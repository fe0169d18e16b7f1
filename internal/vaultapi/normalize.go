package vaultapi

// Key-case normalization. The service names envelope fields with
// underscores (lease_duration); this client exposes them hyphenated
// (lease-duration). The rewrite walks the whole structure except the
// "data" payload, whose keys are caller-defined secret field names and
// must come back bit-for-bit.

// normalizeEnvelope rewrites an inbound response envelope from underscored
// to hyphenated keys. The top-level "data" entry is re-attached verbatim,
// and nil-valued entries are dropped from the top level only.
func normalizeEnvelope(envelope map[string]any) map[string]any {
	return rewriteEnvelope(envelope, '_', '-')
}

// denormalizeEnvelope is the outbound inverse: hyphenated keys back to
// underscored, with the same "data" exemption. Applying one after the
// other restores the original envelope.
func denormalizeEnvelope(envelope map[string]any) map[string]any {
	return rewriteEnvelope(envelope, '-', '_')
}

func rewriteEnvelope(envelope map[string]any, from, to byte) map[string]any {
	if envelope == nil {
		return nil
	}
	out := make(map[string]any, len(envelope))
	for key, value := range envelope {
		if key == "data" {
			out[key] = value
			continue
		}
		if value == nil {
			continue
		}
		out[rewriteKey(key, from, to)] = rewriteKeys(value, from, to)
	}
	return out
}

// rewriteKeys rewrites every mapping key in a JSON-shaped structure,
// descending through nested maps and slices. Scalars pass through.
// The rewrite is idempotent: a structure already in the target convention
// comes back unchanged.
func rewriteKeys(value any, from, to byte) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[rewriteKey(key, from, to)] = rewriteKeys(inner, from, to)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = rewriteKeys(inner, from, to)
		}
		return out
	default:
		return v
	}
}

func rewriteKey(key string, from, to byte) string {
	b := []byte(key)
	changed := false
	for i := range b {
		if b[i] == from {
			b[i] = to
			changed = true
		}
	}
	if !changed {
		return key
	}
	return string(b)
}
