package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"lpPool/internal/model"
)

// ReadOperationsFile reads an operations JSONL file.
func ReadOperationsFile(path string) ([]model.Operation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open operations: %w", err)
	}
	defer file.Close()
	return ReadOperations(file)
}

// ReadOperations decodes one operation per line. Missing sequence numbers
// default to the 1-based position of the line among non-empty lines, and
// sequence numbers must be strictly increasing and fit a Postgres BIGINT.
func ReadOperations(r io.Reader) ([]model.Operation, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var ops []model.Operation
	var lineNo, prevSeq uint64
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		lineNo++

		var op model.Operation
		if err := json.Unmarshal(line, &op); err != nil {
			return nil, fmt.Errorf("line %d: decode operation: %w", lineNo, err)
		}
		if op.Seq == 0 {
			op.Seq = lineNo
		}
		if op.Seq > math.MaxInt64 {
			return nil, fmt.Errorf("line %d: seq %d exceeds %d", lineNo, op.Seq, int64(math.MaxInt64))
		}
		if op.Seq <= prevSeq {
			return nil, fmt.Errorf("line %d: seq %d not after %d", lineNo, op.Seq, prevSeq)
		}
		prevSeq = op.Seq

		op.Kind = model.OperationKind(strings.ToLower(strings.TrimSpace(string(op.Kind))))
		if !op.Kind.Valid() {
			return nil, fmt.Errorf("line %d: unknown operation %q", lineNo, op.Kind)
		}
		owner, err := ParseOwner(op.Owner)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		op.Owner = owner
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan operations: %w", err)
	}
	return ops, nil
}

// ParseOwner validates an optional owner address and returns its checksummed form.
func ParseOwner(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if !common.IsHexAddress(input) {
		return "", fmt.Errorf("invalid owner address: %s", input)
	}
	return common.HexToAddress(input).Hex(), nil
}
