package agents

import "math/rand"

// Rules are the tunables that drive a person's internal state changes.
type Rules struct {
	DiseaseDrain      uint32  // Strength lost per tick while diseased
	RecoveryChance    float64 // Per-tick chance a diseased person recovers
	InfectionChance   float64 // Per-tick chance of spontaneous infection
	ProductionPerTick uint32  // Production accrued per tick while healthy
}

// DefaultRules returns the standard person rules.
func DefaultRules() Rules {
	return Rules{
		DiseaseDrain:      2,
		RecoveryChance:    0.01,
		InfectionChance:   0.0005,
		ProductionPerTick: 1,
	}
}

// Init brings the person to life from birth or seeding data.
func (p *Person) Init(d ChildData) {
	*p = Person{
		Alive:    true,
		Colony:   d.Colony,
		Strength: d.Strength,
		Diseased: d.Diseased,
	}
}

// Kill marks the person dead and clears its colony so the cell renders as empty.
func (p *Person) Kill() {
	*p = Person{}
}

// GiveDisease infects the person.
func (p *Person) GiveDisease() {
	p.Diseased = true
}

// Update advances the person by one tick: ageing, production and disease.
// A person whose age exceeds its strength, or whose strength is drained to
// zero by disease, dies. The returned cause is CauseNone while alive.
func (p *Person) Update(rng *rand.Rand, r Rules) DeathCause {
	if !p.Alive {
		return CauseNone
	}

	p.Age++

	if p.Diseased {
		if p.Strength <= r.DiseaseDrain {
			p.Kill()
			return CauseDisease
		}
		p.Strength -= r.DiseaseDrain
		if rng.Float64() < r.RecoveryChance {
			p.Diseased = false
		}
	} else {
		p.Production += r.ProductionPerTick
		if rng.Float64() < r.InfectionChance {
			p.Diseased = true
		}
	}

	if p.Age > p.Strength {
		p.Kill()
		return CauseAge
	}
	return CauseNone
}

// NextMove picks a delta in {-1, 0, 1} on each axis.
func (p *Person) NextMove(rng *rand.Rand) Move {
	return Move{X: rng.Intn(3) - 1, Y: rng.Intn(3) - 1}
}

// Fight resolves combat between p (the attacker) and defender. The stronger
// side survives with its strength reduced by the loser's; equal strengths
// destroy each other. The result depends only on the two strengths.
func (p *Person) Fight(defender *Person) Outcome {
	switch {
	case p.Strength > defender.Strength:
		p.Strength -= defender.Strength
		defender.Kill()
		return OutcomeWin
	case p.Strength < defender.Strength:
		defender.Strength -= p.Strength
		p.Kill()
		return OutcomeLoss
	default:
		p.Kill()
		defender.Kill()
		return OutcomeMutual
	}
}

// ReadyToReproduce reports whether production has reached threshold.
func (p *Person) ReadyToReproduce(threshold uint32) bool {
	return p.Alive && p.Production >= threshold
}

// Child returns birth data for a fresh member of p's colony and resets p's
// production. The child never inherits disease.
func (p *Person) Child(rng *rand.Rand, strength StrengthRange) ChildData {
	p.Production = 0
	return ChildData{
		Colony:   p.Colony,
		Strength: strength.Roll(rng),
		Diseased: false,
	}
}
