// Package seed provisions the demonstration dataset: six licensed
// operators, six months of revenue reports with three pre-labeled anomaly
// patterns, and a month of sampled wagering transactions. Anomaly labels
// are fixtures written here, not computed anywhere at request time.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/nla-gaming/revmon/internal/domain"
)

// months of report history generated per operator.
const historyMonths = 6

// operatorPlan describes one operator's fixtures. Revenues run oldest to
// newest; the final entry lands on the injected current period. A nil
// anomaly func marks nothing.
type operatorPlan struct {
	operator    domain.Operator
	revenues    []float64
	margin      float64 // gross revenue as a fraction of total bets
	payoutRate  float64 // payouts as a fraction of total bets
	avgBet      float64 // used to derive the declared transaction count
	gameTypes   []string
	anomaly     func(idx int) (label string, confidence float64, late bool)
	submitClock string // HH:MM:SS of the usual submission time
}

func plans() []operatorPlan {
	return []operatorPlan{
		{
			operator: domain.Operator{
				OperatorID: 1, Name: "Bet360 Liberia", LicenseType: domain.LicenseSportsBetting,
				Status: domain.StatusActive, RiskScore: 25, ContactEmail: "ops@bet360.lr",
				LicenseIssueDate: "2022-06-01",
			},
			revenues:    []float64{8500000, 9200000, 8800000, 9500000, 9100000, 9300000},
			margin:      0.12, payoutRate: 0.88, avgBet: 150,
			gameTypes:   []string{"Football", "Basketball", "Tennis"},
			submitClock: "09:15:00",
		},
		{
			// Revenue collapses 44% in the final month; flagged by the
			// compliance workflow as a Revenue Drop at confidence 92.
			operator: domain.Operator{
				OperatorID: 2, Name: "Lucky Star Casino", LicenseType: domain.LicenseOnlineCasino,
				Status: domain.StatusActive, RiskScore: 78, ContactEmail: "ops@luckystar.lr",
				LicenseIssueDate: "2023-01-15",
			},
			revenues:    []float64{12100000, 12800000, 11900000, 12500000, 12300000, 6900000},
			margin:      0.12, payoutRate: 0.88, avgBet: 180,
			gameTypes:   []string{"Slots", "Blackjack", "Roulette", "Poker"},
			submitClock: "10:20:00",
			anomaly: func(idx int) (string, float64, bool) {
				if idx == historyMonths-1 {
					return "Revenue Drop", 92, true
				}
				return "", 0, false
			},
		},
		{
			operator: domain.Operator{
				OperatorID: 3, Name: "Premier Lotto", LicenseType: domain.LicenseLottery,
				Status: domain.StatusActive, RiskScore: 40, ContactEmail: "info@premierlotto.lr",
				LicenseIssueDate: "2021-03-10",
			},
			revenues:    []float64{5200000, 5400000, 5100000, 5600000, 5300000, 5500000},
			margin:      0.15, payoutRate: 0.85, avgBet: 100,
			gameTypes:   []string{"Daily Draw", "Mega Jackpot", "Quick Pick"},
			submitClock: "08:45:00",
		},
		{
			// Declares suspiciously round figures for the last four
			// months, labeled at confidence 78.
			operator: domain.Operator{
				OperatorID: 4, Name: "Monrovia Bet", LicenseType: domain.LicenseSportsBetting,
				Status: domain.StatusUnderReview, RiskScore: 85, ContactEmail: "contact@monroviabt.lr",
				LicenseIssueDate: "2022-11-20",
			},
			revenues:    []float64{7200000, 7500000, 8000000, 8500000, 9000000, 9500000},
			margin:      0.12, payoutRate: 0.88, avgBet: 160,
			gameTypes:   []string{"Football", "Basketball"},
			submitClock: "11:30:00",
			anomaly: func(idx int) (string, float64, bool) {
				if idx >= 2 {
					return "Round Numbers Pattern", 78, false
				}
				return "", 0, false
			},
		},
		{
			// Suspended mid-history: reports stop after the third month,
			// so the detail view has 3 historical reports, not 6.
			operator: domain.Operator{
				OperatorID: 5, Name: "Galaxy Gaming", LicenseType: domain.LicenseOnlineCasino,
				Status: domain.StatusSuspended, RiskScore: 95, ContactEmail: "support@galaxygaming.lr",
				LicenseIssueDate: "2023-05-01",
			},
			revenues:    []float64{15000000, 14500000, 14800000},
			margin:      0.10, payoutRate: 0.90, avgBet: 200,
			submitClock: "14:20:00",
		},
		{
			// Files 8+ days past the deadline for the last three months,
			// labeled as a Late Submission Pattern at confidence 65.
			operator: domain.Operator{
				OperatorID: 6, Name: "Safe Play Liberia", LicenseType: domain.LicenseLottery,
				Status: domain.StatusActive, RiskScore: 15, ContactEmail: "hello@safeplay.lr",
				LicenseIssueDate: "2020-08-15",
			},
			revenues:    []float64{3200000, 3400000, 3300000, 3500000, 3600000, 3800000},
			margin:      0.15, payoutRate: 0.85, avgBet: 90,
			gameTypes:   []string{"Daily Draw", "Evening Draw"},
			submitClock: "16:45:00",
			anomaly: func(idx int) (string, float64, bool) {
				if idx >= historyMonths-3 {
					return "Late Submission Pattern", 65, true
				}
				return "", 0, false
			},
		},
	}
}

// taxRate is the flat declared-tax rate on gross revenue.
const taxRate = 0.20

// Apply writes the full fixture dataset into the repository. The dataset
// is anchored on currentPeriod (a first-of-month date): the newest report
// of each operator lands on that period, history runs backwards from it,
// and transactions cover its final 30 days. Deterministic for a given
// period, so repeated runs against fresh stores produce identical data.
func Apply(ctx context.Context, repo domain.Repository, currentPeriod string) error {
	anchor, err := time.Parse(domain.PeriodLayout, currentPeriod)
	if err != nil {
		return fmt.Errorf("invalid current period %q: %w", currentPeriod, err)
	}

	periods := make([]time.Time, historyMonths)
	for i := range periods {
		periods[i] = anchor.AddDate(0, i-(historyMonths-1), 0)
	}

	rng := rand.New(rand.NewSource(anchor.Unix()))

	for _, plan := range plans() {
		if err := applyPlan(ctx, repo, plan, periods); err != nil {
			return fmt.Errorf("seeding %s: %w", plan.operator.Name, err)
		}
	}

	return applyTransactions(ctx, repo, rng, anchor)
}

func applyPlan(ctx context.Context, repo domain.Repository, plan operatorPlan, periods []time.Time) error {
	op := plan.operator

	// Operators without a full history stopped reporting early.
	lastIdx := len(plan.revenues) - 1
	op.LastReportDate = periods[lastIdx].AddDate(0, 0, 25).Format(domain.PeriodLayout)

	if err := repo.SaveOperator(ctx, &op); err != nil {
		return err
	}

	for idx, revenue := range plan.revenues {
		period := periods[idx]
		bets := revenue / plan.margin
		report := &domain.RevenueReport{
			OperatorID:           op.OperatorID,
			ReportDate:           period.Format(domain.PeriodLayout),
			GrossRevenue:         revenue,
			TotalBets:            bets,
			TotalPayouts:         bets * plan.payoutRate,
			NumberOfTransactions: int64(revenue / plan.avgBet),
			DeclaredTax:          revenue * taxRate,
		}

		submitDay := 1
		if plan.anomaly != nil {
			if label, confidence, late := plan.anomaly(idx); label != "" {
				report.AnomalyFlag = true
				report.AnomalyType = &label
				conf := confidence
				report.AnomalyConfidence = &conf
				report.IsLate = late
				if late {
					submitDay = 10 + idx // well past the filing deadline
				}
			}
		}
		report.SubmissionTimestamp = fmt.Sprintf("%s %s",
			period.AddDate(0, 0, submitDay-1).Format(domain.PeriodLayout), plan.submitClock)

		if _, err := repo.SaveReport(ctx, report); err != nil {
			return err
		}
	}

	return nil
}

// applyTransactions samples 100-300 wagering events per active operator
// across the 30 days ending with the anchor month.
func applyTransactions(ctx context.Context, repo domain.Repository, rng *rand.Rand, anchor time.Time) error {
	endOfMonth := anchor.AddDate(0, 1, -1)

	for _, plan := range plans() {
		if plan.operator.Status == domain.StatusSuspended || len(plan.gameTypes) == 0 {
			continue
		}

		count := 100 + rng.Intn(200)
		for i := 0; i < count; i++ {
			bet := 100 + rng.Float64()*5000
			var payout float64
			if rng.Float64() > 0.55 { // 45% player win rate
				payout = bet * (1 + rng.Float64()*3)
			}

			tx := &domain.Transaction{
				OperatorID:      plan.operator.OperatorID,
				TransactionDate: endOfMonth.AddDate(0, 0, -rng.Intn(30)).Format(domain.PeriodLayout),
				TransactionHour: rng.Intn(24),
				BetAmount:       bet,
				PayoutAmount:    payout,
				GameType:        plan.gameTypes[rng.Intn(len(plan.gameTypes))],
				PlayerID:        fmt.Sprintf("PLAYER_%04d", rng.Intn(10000)),
				IPAddress:       fmt.Sprintf("41.%d.%d.%d", rng.Intn(256), rng.Intn(256), rng.Intn(256)),
				SuspiciousFlag:  rng.Float64() > 0.97,
			}

			if _, err := repo.SaveTransaction(ctx, tx); err != nil {
				return fmt.Errorf("seeding transactions for %s: %w", plan.operator.Name, err)
			}
		}
	}

	return nil
}
