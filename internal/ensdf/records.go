package ensdf

import "strings"

// Identification opens every dataset.
//
//	1-5 NUCID, 10-39 DSID, 40-65 DSREF, 66-74 PUB, 75-80 DATE
//
// A DSID ending in a comma is continued on a following card.
type Identification struct {
	card
	NUCID string
	DSID  string
	DSREF string
	PUB   string
	DATE  string
}

func (*Identification) Kind() Kind { return KindIdentification }

// Continues reports whether the dataset id is continued on the next card.
func (r *Identification) Continues() bool {
	return strings.HasSuffix(r.DSID, ",")
}

// extend appends the dataset id text of a continuation card.
func (r *Identification) extend(content string) {
	r.DSID = strings.TrimSpace(r.DSID + " " + field(content, 10, 39))
	r.content += "\n" + content
}

func parseIdentification(c card, d *decoder) *Identification {
	return &Identification{
		card:  c,
		NUCID: d.text(1, 5),
		DSID:  d.text(10, 39),
		DSREF: d.text(40, 65),
		PUB:   d.text(66, 74),
		DATE:  d.text(75, 80),
	}
}

// History holds the evaluation history text (10-80).
type History struct {
	card
	Text string
}

func (*History) Kind() Kind { return KindHistory }

// Comment is a free-text or tabular comment card.
type Comment struct {
	card
	Code  byte
	RType string
	PSym  string
	Text  string
}

func (*Comment) Kind() Kind { return KindComment }

func parseComment(c card, d *decoder, code byte) *Comment {
	return &Comment{
		card:  c,
		Code:  code,
		RType: d.text(8, 8),
		PSym:  d.text(9, 9),
		Text:  d.text(10, 80),
	}
}

// Level is an energy level of the dataset nuclide.
//
//	10-19 E, 20-21 DE, 22-39 J, 40-49 T, 50-55 DT, 56-64 L, 65-74 S,
//	75-76 DS, 77 C, 78-79 MS, 80 Q
type Level struct {
	card
	NUCID string
	E     Number
	DE    Uncertainty
	J     string
	T     HalfLife
	DT    Uncertainty
	L     string
	S     string
	DS    string
	C     string
	MS    string
	Q     string
	// Index is the zero-based position of the level in an Adopted dataset,
	// -1 elsewhere.
	Index int
}

func (*Level) Kind() Kind { return KindLevel }

func parseLevel(c card, d *decoder) *Level {
	r := &Level{card: c, NUCID: d.text(1, 5), Index: -1}
	r.E = d.num(10, 19)
	r.DE = d.unc(20, 21, r.E)
	r.J = d.text(22, 39)
	r.T = d.halfLife(40, 49)
	r.DT = d.halfLifeUnc(50, 55, r.T)
	r.L = d.text(56, 64)
	r.S = d.text(65, 74)
	r.DS = d.text(75, 76)
	r.C = d.text(77, 77)
	r.MS = d.text(78, 79)
	r.Q = d.text(80, 80)
	return r
}

// Gamma is a gamma transition from the preceding level.
//
//	10-19 E, 20-21 DE, 22-29 RI, 30-31 DRI, 32-41 M, 42-49 MR, 50-55 DMR,
//	56-62 CC, 63-64 DCC, 65-74 TI, 75-76 DTI, 77 C, 78 COIN, 80 Q
//
// RI is normalized with the dataset normalization record when one was in
// effect as the card was read.
type Gamma struct {
	card
	NUCID string
	E     Number
	DE    Uncertainty
	RI    Number
	DRI   Uncertainty
	M     string
	MR    Number
	DMR   Uncertainty
	CC    Number
	DCC   Uncertainty
	TI    Number
	DTI   Uncertainty
	C     string
	COIN  string
	Q     string

	// Conversion coefficients from continuation cards.
	KC, LC, MC Number
}

func (*Gamma) Kind() Kind                  { return KindGamma }
func (r *Gamma) Energy() Number            { return r.E }
func (r *Gamma) EnergyUnc() Uncertainty    { return r.DE }
func (r *Gamma) Intensity() Number         { return r.RI }
func (r *Gamma) IntensityUnc() Uncertainty { return r.DRI }

func parseGamma(c card, d *decoder, nc NormContext) *Gamma {
	r := &Gamma{card: c, NUCID: d.text(1, 5)}
	r.E = d.num(10, 19)
	r.DE = d.unc(20, 21, r.E)
	r.RI = d.num(22, 29)
	r.DRI = d.unc(30, 31, r.RI)
	if nc.Normalization != nil && r.RI.Valid {
		if f, ok := nc.Normalization.Factor(); ok {
			r.RI.Value *= f
			r.DRI.Value *= f
		}
	}
	if !r.RI.Valid {
		r.RI = Known(0)
	}
	r.M = d.text(32, 41)
	r.MR = d.num(42, 49)
	r.DMR = d.unc(50, 55, r.MR)
	r.CC = d.num(56, 62)
	r.DCC = d.unc(63, 64, r.CC)
	r.TI = d.num(65, 74)
	r.DTI = d.unc(75, 76, r.TI)
	r.C = d.text(77, 77)
	r.COIN = d.text(78, 78)
	r.Q = d.text(80, 80)
	return r
}

// Beta is a beta-minus branch feeding the preceding level.
//
//	10-19 E, 20-21 DE, 22-29 IB, 30-31 DIB, 42-49 LOGFT, 50-55 DFT,
//	77 C, 78-79 UN, 80 Q
type Beta struct {
	card
	NUCID string
	E     Number
	DE    Uncertainty
	IB    Number
	DIB   Uncertainty
	LOGFT string
	DFT   string
	C     string
	UN    string
	Q     string

	// EAV is the average beta energy from a continuation card.
	EAV Number
}

func (*Beta) Kind() Kind { return KindBeta }

// Energy is the end-point energy, or the average energy when the end point
// is not given.
func (r *Beta) Energy() Number {
	if !r.E.Valid && r.EAV.Valid {
		return r.EAV
	}
	return r.E
}

func (r *Beta) EnergyUnc() Uncertainty    { return r.DE }
func (r *Beta) Intensity() Number         { return r.IB }
func (r *Beta) IntensityUnc() Uncertainty { return r.DIB }

func parseBeta(c card, d *decoder) *Beta {
	r := &Beta{card: c, NUCID: d.text(1, 5)}
	r.E = d.num(10, 19)
	r.DE = d.unc(20, 21, r.E)
	r.IB = d.num(22, 29)
	r.DIB = d.unc(30, 31, r.IB)
	r.LOGFT = d.text(42, 49)
	r.DFT = d.text(50, 55)
	r.C = d.text(77, 77)
	r.UN = d.text(78, 79)
	r.Q = d.text(80, 80)
	return r
}

// AnnihilationEnergy is the energy of one annihilation photon in keV.
const AnnihilationEnergy = 511.0

// EC is an electron-capture (and beta-plus) branch feeding the preceding
// level.
//
//	10-19 E, 20-21 DE, 22-29 IB, 30-31 DIB, 32-39 IE, 40-41 DIE,
//	42-49 LOGFT, 50-55 DFT, 65-74 TI, 75-76 DTI, 77 C, 78-79 UN, 80 Q
type EC struct {
	card
	NUCID string
	E     Number
	DE    Uncertainty
	IB    Number
	DIB   Uncertainty
	IE    Number
	DIE   Uncertainty
	LOGFT string
	DFT   string
	TI    string
	DTI   string
	C     string
	UN    string
	Q     string

	// Shell capture fractions from continuation cards.
	CK, CL, CM Number
}

func (*EC) Kind() Kind { return KindEC }

// Energy of an EC line is the annihilation photon energy.
func (r *EC) Energy() Number { return Known(AnnihilationEnergy) }

func (r *EC) EnergyUnc() Uncertainty { return Uncertainty{} }

// Intensity is the sum of the beta-plus and capture intensities.
func (r *EC) Intensity() Number {
	switch {
	case r.IB.Valid && r.IE.Valid:
		return Known(r.IB.Value + r.IE.Value)
	case !r.IB.Valid:
		return r.IE
	default:
		return r.IB
	}
}

func (r *EC) IntensityUnc() Uncertainty { return r.DIB }

func parseEC(c card, d *decoder) *EC {
	r := &EC{card: c, NUCID: d.text(1, 5)}
	r.E = d.num(10, 19)
	r.DE = d.unc(20, 21, r.E)
	r.IB = d.num(22, 29)
	r.DIB = d.unc(30, 31, r.IB)
	r.IE = d.num(32, 39)
	r.DIE = d.unc(40, 41, r.IE)
	r.LOGFT = d.text(42, 49)
	r.DFT = d.text(50, 55)
	r.TI = d.text(65, 74)
	r.DTI = d.text(75, 76)
	r.C = d.text(77, 77)
	r.UN = d.text(78, 79)
	r.Q = d.text(80, 80)
	return r
}

// Alpha is an alpha branch feeding the preceding level.
//
//	10-19 E, 20-21 DE, 22-29 IA, 30-31 DIA, 32-39 HF, 40-41 DHF, 77 C, 80 Q
type Alpha struct {
	card
	NUCID string
	E     Number
	DE    Uncertainty
	IA    Number
	DIA   Uncertainty
	HF    Number
	DHF   Uncertainty
	C     string
	Q     string
}

func (*Alpha) Kind() Kind                  { return KindAlpha }
func (r *Alpha) Energy() Number            { return r.E }
func (r *Alpha) EnergyUnc() Uncertainty    { return r.DE }
func (r *Alpha) Intensity() Number         { return r.IA }
func (r *Alpha) IntensityUnc() Uncertainty { return r.DIA }

func parseAlpha(c card, d *decoder) *Alpha {
	r := &Alpha{card: c, NUCID: d.text(1, 5)}
	r.E = d.num(10, 19)
	r.DE = d.unc(20, 21, r.E)
	r.IA = d.num(22, 29)
	r.DIA = d.unc(30, 31, r.IA)
	r.HF = d.num(32, 39)
	r.DHF = d.unc(40, 41, r.HF)
	r.C = d.text(77, 77)
	r.Q = d.text(80, 80)
	return r
}

// Parent describes the decaying level of a decay dataset.
//
//	10-19 E, 20-21 DE, 22-39 J, 40-49 T, 50-55 DT, 65-74 QP, 75-76 DQP,
//	77-80 ION
type Parent struct {
	card
	NUCID string
	E     Number
	DE    Uncertainty
	J     string
	T     HalfLife
	DT    string
	QP    Number
	DQP   Uncertainty
	ION   string
}

func (*Parent) Kind() Kind { return KindParent }

// complete reports whether both the level energy and the half-life of the
// parent are known.
func (r *Parent) complete() bool {
	return r.E.Valid && r.T.Defined()
}

func parseParent(c card, d *decoder) *Parent {
	r := &Parent{card: c, NUCID: d.text(1, 5)}
	r.E = d.num(10, 19)
	r.DE = d.unc(20, 21, r.E)
	r.J = d.text(22, 39)
	r.T = d.halfLife(40, 49)
	r.DT = d.text(50, 55)
	r.QP = d.num(65, 74)
	r.DQP = d.unc(75, 76, r.QP)
	r.ION = d.text(77, 80)
	return r
}

// Normalization holds the multipliers that bring relative intensities to
// absolute ones.
//
//	10-19 NR, 20-21 DNR, 22-29 NT, 30-31 DNT, 32-39 BR, 40-41 DBR,
//	42-49 NB, 50-55 DNB, 56-62 NP, 63-64 DNP
type Normalization struct {
	card
	NUCID string
	NR    Number
	DNR   Uncertainty
	NT    Number
	DNT   Uncertainty
	BR    Number
	DBR   Uncertainty
	NB    Number
	DNB   Uncertainty
	NP    Number
	DNP   Uncertainty
}

func (*Normalization) Kind() Kind { return KindNormalization }

// Factor returns the multiplier for gamma intensities: NR, else NT, else
// BR, else NB, else NP, and NR*BR when both NR and BR are given.
func (r *Normalization) Factor() (float64, bool) {
	switch {
	case r.NR.Valid && r.BR.Valid:
		return r.NR.Value * r.BR.Value, true
	case r.NR.Valid:
		return r.NR.Value, true
	case r.NT.Valid:
		return r.NT.Value, true
	case r.BR.Valid:
		return r.BR.Value, true
	case r.NB.Valid:
		return r.NB.Value, true
	case r.NP.Valid:
		return r.NP.Value, true
	}
	return 0, false
}

func parseNormalization(c card, d *decoder) *Normalization {
	r := &Normalization{card: c, NUCID: d.text(1, 5)}
	r.NR = d.num(10, 19)
	r.DNR = d.unc(20, 21, r.NR)
	r.NT = d.num(22, 29)
	r.DNT = d.unc(30, 31, r.NT)
	r.BR = d.num(32, 39)
	r.DBR = d.unc(40, 41, r.BR)
	r.NB = d.num(42, 49)
	r.DNB = d.unc(50, 55, r.NB)
	r.NP = d.num(56, 62)
	r.DNP = d.unc(63, 64, r.NP)
	return r
}

// ProductionNormalization is the "PN" card. It carries products of the
// normalization factors and never rescales intensities itself.
//
//	10-19 NRxBR, 22-29 NTxBR, 42-49 NBxBR, 56-62 NP, 77 COM, 78 OPT
type ProductionNormalization struct {
	card
	NUCID  string
	NRBR   Number
	DNRBR  Uncertainty
	NTBR   Number
	DNTBR  Uncertainty
	NBBR   Number
	DNBBR  Uncertainty
	NP     Number
	DNP    Uncertainty
	COM    string
	OPTION string
}

func (*ProductionNormalization) Kind() Kind { return KindProductionNormalization }

func parseProductionNormalization(c card, d *decoder) *ProductionNormalization {
	r := &ProductionNormalization{card: c, NUCID: d.text(1, 5)}
	r.NRBR = d.num(10, 19)
	r.DNRBR = d.unc(20, 21, r.NRBR)
	r.NTBR = d.num(22, 29)
	r.DNTBR = d.unc(30, 31, r.NTBR)
	r.NBBR = d.num(42, 49)
	r.DNBBR = d.unc(50, 55, r.NBBR)
	r.NP = d.num(56, 62)
	r.DNP = d.unc(63, 64, r.NP)
	r.COM = d.text(77, 77)
	r.OPTION = d.text(78, 78)
	return r
}

// QValue holds the ground-state Q-values and separation energies.
//
//	10-19 Q-, 20-21 DQ-, 22-29 SN, 30-31 DSN, 32-39 SP, 40-41 DSP,
//	42-49 QA, 50-55 DQA, 56-80 QREF
type QValue struct {
	card
	NUCID  string
	QMinus Number
	DQM    Uncertainty
	SN     Number
	DSN    Uncertainty
	SP     Number
	DSP    Uncertainty
	QA     Number
	DQA    Uncertainty
	QREF   string
}

func (*QValue) Kind() Kind { return KindQValue }

func parseQValue(c card, d *decoder) *QValue {
	r := &QValue{card: c, NUCID: d.text(1, 5)}
	r.QMinus = d.num(10, 19)
	r.DQM = d.unc(20, 21, r.QMinus)
	r.SN = d.num(22, 29)
	r.DSN = d.unc(30, 31, r.SN)
	r.SP = d.num(32, 39)
	r.DSP = d.unc(40, 41, r.SP)
	r.QA = d.num(42, 49)
	r.DQA = d.unc(50, 55, r.QA)
	r.QREF = d.text(56, 80)
	return r
}

// CrossReference names another dataset of the same nuclide (9 DSSYM,
// 10-39 DSID).
type CrossReference struct {
	card
	DSSYM string
	DSID  string
}

func (*CrossReference) Kind() Kind { return KindCrossReference }

// DelayedParticle is a delayed neutron, proton or alpha emission. Fields
// are kept as text.
//
//	8 D, 9 particle, 10-19 E, 20-21 DE, 22-29 IP, 30-31 DIP, 32-39 EI,
//	40-49 T, 50-55 DT, 56-64 L, 77 C, 80 Q
type DelayedParticle struct {
	card
	NUCID    string
	D        string
	Particle string
	E        string
	DE       string
	IP       string
	DIP      string
	EI       string
	T        string
	DT       string
	L        string
	C        string
	Q        string
}

func (*DelayedParticle) Kind() Kind { return KindDelayedParticle }

func parseDelayedParticle(c card, d *decoder) *DelayedParticle {
	return &DelayedParticle{
		card:     c,
		NUCID:    d.text(1, 5),
		D:        d.text(8, 8),
		Particle: d.text(9, 9),
		E:        d.text(10, 19),
		DE:       d.text(20, 21),
		IP:       d.text(22, 29),
		DIP:      d.text(30, 31),
		EI:       d.text(32, 39),
		T:        d.text(40, 49),
		DT:       d.text(50, 55),
		L:        d.text(56, 64),
		C:        d.text(77, 77),
		Q:        d.text(80, 80),
	}
}

// Reference is a card of the references dataset (1-3 MASS, 10-17 KEYNUM,
// 18-80 REFERENCE).
type Reference struct {
	card
	Mass   string
	KeyNum string
	Text   string
}

func (*Reference) Kind() Kind { return KindReference }
