package zkproof

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Compiled holds the constraint system and Groth16 keys for one layout.
type Compiled struct {
	LayoutID     string
	CS           constraint.ConstraintSystem
	ProvingKey   groth16.ProvingKey
	VerifyingKey groth16.VerifyingKey
	Constraints  int
	PublicVars   int
	SecretVars   int
}

// Proof is a Groth16 proof bound to one layout and one set of givens.
type Proof struct {
	LayoutID    string
	Fingerprint string
	proof       groth16.Proof
}

// Prover compiles layout circuits once and reuses them across puzzle
// instances. Safe for concurrent use.
type Prover struct {
	mu       sync.RWMutex
	circuits map[string]*Compiled
	curve    ecc.ID
}

// NewProver creates an empty prover on the BN254 curve.
func NewProver() *Prover {
	return &Prover{
		circuits: make(map[string]*Compiled),
		curve:    ecc.BN254,
	}
}

// Compile builds and sets up the circuit for p's layout, caching it
// under the layout ID. Repeat calls for the same layout return the
// cached circuit.
func (pr *Prover) Compile(p *puzzle.Puzzle) (*Compiled, error) {
	id := p.LayoutID()

	pr.mu.RLock()
	cc, ok := pr.circuits[id]
	pr.mu.RUnlock()
	if ok {
		return cc, nil
	}

	cs, err := frontend.Compile(pr.curve.ScalarField(), r1cs.NewBuilder, NewSolutionCircuit(p))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}

	cc = &Compiled{
		LayoutID:     id,
		CS:           cs,
		ProvingKey:   pk,
		VerifyingKey: vk,
		Constraints:  cs.GetNbConstraints(),
		PublicVars:   cs.GetNbPublicVariables(),
		SecretVars:   cs.GetNbSecretVariables(),
	}
	pr.mu.Lock()
	pr.circuits[id] = cc
	pr.mu.Unlock()
	return cc, nil
}

// Layouts returns the IDs of the layouts with a compiled circuit.
func (pr *Prover) Layouts() []string {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	ids := make([]string, 0, len(pr.circuits))
	for id := range pr.circuits {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prove generates a proof that solution completes the puzzle instance
// described by givens. The solution only ever enters the secret part of
// the witness.
func (pr *Prover) Prove(p *puzzle.Puzzle, givens map[int]int, solution []int) (*Proof, error) {
	cc, err := pr.Compile(p)
	if err != nil {
		return nil, err
	}
	a, err := assignment(p, givens, solution)
	if err != nil {
		return nil, err
	}
	w, err := frontend.NewWitness(a, pr.curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(cc.CS, cc.ProvingKey, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	return &Proof{
		LayoutID:    cc.LayoutID,
		Fingerprint: p.Fingerprint(givens),
		proof:       proof,
	}, nil
}

// Verify checks pf against the givens the verifier trusts. The public
// witness is rebuilt locally, so a proof cannot bring its own givens.
func (pr *Prover) Verify(p *puzzle.Puzzle, givens map[int]int, pf *Proof) error {
	if id := p.LayoutID(); pf.LayoutID != id {
		return fmt.Errorf("proof is for layout %s, puzzle has %s", pf.LayoutID, id)
	}
	if fp := p.Fingerprint(givens); pf.Fingerprint != fp {
		return fmt.Errorf("proof is for puzzle %s, givens hash to %s", pf.Fingerprint, fp)
	}
	cc, err := pr.Compile(p)
	if err != nil {
		return err
	}
	a, err := assignment(p, givens, nil)
	if err != nil {
		return err
	}
	w, err := frontend.NewWitness(a, pr.curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}
	return groth16.Verify(pf.proof, cc.VerifyingKey, w)
}

// MarshalBinary encodes the proof points.
func (pf *Proof) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := pf.proof.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalProof decodes proof bytes produced by MarshalBinary. The
// layout ID and fingerprint travel outside the proof bytes and must be
// supplied by the caller.
func UnmarshalProof(layoutID, fingerprint string, data []byte) (*Proof, error) {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode proof: %w", err)
	}
	return &Proof{LayoutID: layoutID, Fingerprint: fingerprint, proof: proof}, nil
}

// ExportSolidity renders the on-chain verifier contract for the layout.
func (cc *Compiled) ExportSolidity() (string, error) {
	var buf bytes.Buffer
	if err := cc.VerifyingKey.ExportSolidity(&buf); err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	return buf.String(), nil
}
