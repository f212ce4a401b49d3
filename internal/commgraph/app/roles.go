package app

import (
	"strings"

	"github.com/rlaaudgjs5638/contractGraph/internal/extractor"
	shareddomain "github.com/rlaaudgjs5638/contractGraph/shared/domain"
)

// roleRule: 함수 이름 집합 술어 OR 소문자 이름 부분 문자열 매치
type roleRule struct {
	role          Role
	requiredFuncs []string // 전부 있어야 매치 (비면 미사용)
	nameHints     []string // 하나라도 포함되면 매치
}

// roleRules: 위에서 아래로 평가, 첫 매치 승 — 순서가 곧 우선순위
// 영어 이름 부분 문자열 휴리스틱은 의도된 범위 제한 (스테밍/국제화 없음)
var roleRules = []roleRule{
	{role: RoleToken, requiredFuncs: []string{"transfer", "approve", "balanceOf"}, nameHints: []string{"token"}},
	{role: RoleDex, requiredFuncs: []string{"swapExactTokensForTokens", "getAmountsOut"}, nameHints: []string{"dex", "exchange", "pair"}},
	{role: RoleRouter, nameHints: []string{"router"}}, // 이름 전용 폴백
	{role: RoleFactory, requiredFuncs: []string{"createPair"}, nameHints: []string{"factory"}},
	{role: RoleLending, requiredFuncs: []string{"borrow", "repay"}, nameHints: []string{"lending", "lend"}},
	{role: RoleVault, requiredFuncs: []string{"deposit", "withdraw"}, nameHints: []string{"vault"}},
	{role: RoleGovernance, requiredFuncs: []string{"propose", "castVote"}, nameHints: []string{"governance", "governor", "timelock"}},
	{role: RoleOracle, requiredFuncs: []string{"latestRoundData"}, nameHints: []string{"oracle", "feed"}},
	{role: RoleBridge, requiredFuncs: []string{"sendMessage", "relayMessage"}, nameHints: []string{"bridge"}},
	{role: RoleProxy, requiredFuncs: []string{"upgradeTo"}, nameHints: []string{"proxy"}},
	{role: RoleMultisig, requiredFuncs: []string{"submitTransaction", "confirmTransaction"}, nameHints: []string{"multisig", "multi-sig"}},
}

// ClassifyRole: 정확히 하나의 역할 리턴 (매치 없으면 unknown)
func ClassifyRole(c *shareddomain.FetchedContract) Role {
	funcSet := make(map[string]struct{})
	for _, name := range extractor.FunctionNames(c.ABI) {
		funcSet[name] = struct{}{}
	}
	lowerName := strings.ToLower(c.ContractName)

	for _, rule := range roleRules {
		if len(rule.requiredFuncs) > 0 && hasAll(funcSet, rule.requiredFuncs) {
			return rule.role
		}
		for _, hint := range rule.nameHints {
			if strings.Contains(lowerName, hint) {
				return rule.role
			}
		}
	}
	return RoleUnknown
}

func hasAll(set map[string]struct{}, required []string) bool {
	for _, name := range required {
		if _, ok := set[name]; !ok {
			return false
		}
	}
	return true
}

// classifyPattern: (소스 텍스트 단서, 타깃 역할) → 패턴
// 위에서 아래 순서 평가 — 첫 매치 승
func classifyPattern(lowerSource string, targetRole Role) Pattern {
	switch targetRole {
	case RoleToken:
		if strings.Contains(lowerSource, ".transfer(") || strings.Contains(lowerSource, ".transferfrom(") {
			return PatternTokenTransfer
		}
		if strings.Contains(lowerSource, ".approve(") {
			return PatternTokenApproval
		}
	case RoleDex, RoleRouter:
		if strings.Contains(lowerSource, "swap") {
			return PatternSwap
		}
		if strings.Contains(lowerSource, "addliquidity") || strings.Contains(lowerSource, "removeliquidity") {
			return PatternLiquidity
		}
	case RoleLending:
		return PatternLending
	case RoleOracle:
		return PatternOracle
	case RoleBridge:
		return PatternBridge
	case RoleGovernance:
		return PatternGovernance
	}

	if strings.Contains(lowerSource, "callback") {
		return PatternCallback
	}
	if strings.Contains(lowerSource, "flashloan") || strings.Contains(lowerSource, "flash_loan") {
		return PatternFlashLoan
	}
	return PatternGenericCall
}
