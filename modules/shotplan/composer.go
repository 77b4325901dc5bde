package shotplan

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	firstSentence = regexp.MustCompile(`^[^.!?]+[.!?]`)
	hairMention   = regexp.MustCompile(`(?i)\bhair(s|style|styles|cut|do)?\b`)
)

// FirstSentence - 첫 문장만 (종결부호가 없으면 전체)
func FirstSentence(text string) string {
	text = strings.TrimSpace(text)
	if m := firstSentence.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	return text
}

// Compose - ShotSpec + 전역 상태 → 최종 프롬프트와 에셋 URL 목록
// 같은 입력이면 항상 같은 결과를 돌려준다.
func Compose(spec ShotSpec, fit FitDescription, accessories AccessoryVisibility, assets AssetSet) (ComposedPrompt, error) {
	fitText := strings.TrimSpace(fit.Text)
	if fitText == "" && spec.Camera.ShotType != ShotCloseUp {
		return ComposedPrompt{}, fmt.Errorf("%w: shot %s", ErrMissingFitDescription, spec.ShotID)
	}

	urls, included := composeAssets(spec, accessories, assets)

	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	// 1. 포즈 (헤어 정보 제외 샷은 머리 관련 문장 제거, 핏 설명은 건드리지 않는다)
	pose := spec.Pose
	if spec.Suppress.ExcludeHairInfo {
		pose = stripHairSentences(pose)
	}
	add(pose)

	// 2. 핏 설명
	if fitText != "" {
		if spec.FitMode == FitFirstSentenceOnly {
			fitText = FirstSentence(fitText)
		}
		add("FIT & SILHOUETTE (CRITICAL): " + fitText)
		add(clauseFitProportion)
	}

	add(subjectClause(spec, fit))
	add(framingClauses[spec.Camera.Framing])
	add(angleClauses[spec.Camera.Angle])
	if spec.IsStyling {
		add(clauseStylingPose)
	} else {
		add(clauseTechnicalPose)
	}

	if fabric := strings.TrimSpace(fit.Fabric); fabric != "" {
		add("FABRIC TEXTURE (CRITICAL - MUST MATCH REFERENCE IMAGE EXACTLY): " + fabric)
		add(clauseTextureRequired)
	} else {
		add(clauseTextureGeneric)
	}
	if color := strings.TrimSpace(fit.Color); color != "" {
		add("Garment color: " + color + ".")
	}

	if showsButtons(spec) {
		if spec.ButtonsOpen {
			add(clauseButtonsOpen)
		} else {
			add(clauseButtonsClosed)
		}
	}
	add(tuckClause(spec))
	if spec.SleevesRolled && spec.Workflow != WorkflowLower {
		add(clauseSleevesRolled)
	}
	if included[KeyJacket] {
		add(clauseJacket)
	}
	if included[KeyInnerWear] {
		add(clauseInnerWear)
	}
	add(accessoryClause(included))
	if showsHem(spec) {
		add(lengthClauses[spec.PantLength])
	}

	// 4. 양말 (바닥 기장이면 색상과 무관하게 생략)
	add(socksClause(spec))

	if included[KeyShoes] {
		add(clauseShoes)
	}
	if included[KeyModel] {
		add(clauseModelIdentity)
	}
	if !spec.Suppress.ExcludeHairInfo {
		if spec.HairBehind {
			add(clauseHairBehind)
		}
		if spec.LookAtCamera {
			add(clauseLookAtCamera)
		} else {
			add(clauseLookAway)
		}
	}
	if spec.Wind {
		add(clauseWind)
	}
	if spec.Camera.Framing == FramingWaistToKnees {
		add(clauseDetail)
	}
	if included[KeyStickman] {
		add(clauseStickman)
	}
	if included[KeyBackground] {
		add(clauseBackground)
	} else {
		add(clauseStudio)
	}
	if included[KeyLighting] {
		add(clauseLighting)
	}

	prompt := strings.Join(parts, " ")

	if avoid := negativeClause(spec, included); avoid != "" {
		prompt += " " + avoid
	}

	return ComposedPrompt{
		ShotID:      spec.ShotID,
		Prompt:      prompt,
		AssetURLs:   urls,
		AspectRatio: spec.AspectRatio,
		Resolution:  spec.Resolution,
	}, nil
}

// composeAssets - 고정 순서로 에셋 URL 목록 생성 (중복 URL 제거)
func composeAssets(spec ShotSpec, accessories AccessoryVisibility, assets AssetSet) ([]string, map[string]bool) {
	var keys []string
	keys = append(keys, KeyModel, KeyBackground)
	if spec.HasRole(RoleFront) {
		keys = append(keys, frontGarmentKeys...)
	}
	if spec.HasRole(RoleBack) {
		keys = append(keys, backGarmentKeys...)
	}
	keys = append(keys, KeyInnerWear)
	if !spec.Suppress.excludes(KeyShoes) {
		keys = append(keys, KeyShoes)
	}
	keys = append(keys, KeyLighting)
	for _, key := range AccessoryKeys {
		if spec.IncludeAccessories[key] && accessories.Visible(key) && !spec.Suppress.excludes(key) {
			keys = append(keys, key)
		}
	}
	// 6. 스틱맨은 항상 마지막
	if spec.UseStickman {
		keys = append(keys, KeyStickman)
	}

	urls := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	included := make(map[string]bool, len(keys))
	for _, key := range keys {
		u, ok := assets.URL(key)
		if !ok {
			continue
		}
		included[key] = true
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls, included
}

func subjectClause(spec ShotSpec, fit FitDescription) string {
	subject, build := "female model", "175cm tall, wearing EU size 38 shoes"
	if spec.Gender == GenderMale {
		subject, build = "male model", "190cm tall, wearing EU size 43 shoes"
	}
	name := strings.TrimSpace(fit.ProductName)
	if name == "" {
		name = "the garment shown in the reference images"
	}
	return fmt.Sprintf("Fashion e-commerce photography. A professional %s (%s) is wearing %s. Realistic body proportions.", subject, build, name)
}

func showsButtons(spec ShotSpec) bool {
	return spec.Workflow == WorkflowUpper || spec.Workflow == WorkflowStandard
}

func tuckClause(spec ShotSpec) string {
	switch spec.Workflow {
	case WorkflowUpper:
		if spec.Tucked {
			return clauseUpperTucked
		}
		return clauseUpperUntucked
	case WorkflowLower, WorkflowStandard:
		if spec.Tucked {
			return clauseLowerTucked
		}
		return clauseLowerUntucked
	}
	return ""
}

// showsHem - 바지 밑단이 프레임에 들어오는 샷인지
func showsHem(spec ShotSpec) bool {
	return spec.Workflow != WorkflowDress && spec.Camera.Framing == FramingHeadToToe
}

func socksClause(spec ShotSpec) string {
	if spec.Suppress.ExcludeSocksInfo || spec.PantLength.FloorLength() {
		return ""
	}
	if spec.Camera.Framing != FramingHeadToToe {
		return ""
	}
	color, ok := sockColors[spec.SocksType]
	if !ok {
		return ""
	}
	return fmt.Sprintf("Socks: the model wears %s socks, visible between the hem and the shoes.", color)
}

func accessoryClause(included map[string]bool) string {
	var names []string
	for _, key := range AccessoryKeys {
		if name, ok := accessoryNames[key]; ok && included[key] {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "Accessories: the model wears the provided " + strings.Join(names, ", ") + " exactly as shown in the reference images."
}

func negativeClause(spec ShotSpec, included map[string]bool) string {
	var neg []string
	if included[KeyShoes] {
		neg = append(neg, negativeShoes)
	}
	if showsButtons(spec) && !spec.ButtonsOpen {
		neg = append(neg, negativeButtons)
	}
	if spec.Workflow == WorkflowUpper && !spec.Tucked {
		neg = append(neg, negativeTucked)
	}
	neg = append(neg, negativeFlat)
	if spec.Camera.Framing == FramingHeadToToe {
		neg = append(neg, negativeCropping)
	}
	return "AVOID: " + strings.Join(neg, ", ") + "."
}

// stripHairSentences - "hair" 가 들어간 문장 제거 (나머지 문장은 원문 그대로)
func stripHairSentences(text string) string {
	var b strings.Builder
	for _, s := range splitSentences(text) {
		if hairMention.MatchString(s) {
			continue
		}
		b.WriteString(s)
	}
	return strings.TrimSpace(b.String())
}

// splitSentences - 종결부호와 뒤따르는 공백까지 한 덩어리로 분리 (이어 붙이면 원문)
func splitSentences(text string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
				j++
			}
			if j < len(text) && text[j] != ' ' {
				i = j
				continue
			}
			for j < len(text) && text[j] == ' ' {
				j++
			}
			out = append(out, text[start:j])
			start = j
			i = j
			continue
		}
		i++
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
