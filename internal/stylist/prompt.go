package stylist

import (
	"strconv"
	"strings"

	"angella-backend/internal/submission"
)

const systemPrompt = `당신은 전문 퍼스널 스타일리스트입니다.
사용자의 사진과 신체 정보를 분석하여 맞춤형 스타일 컨설팅 보고서를 작성해주세요.
보고서에는 다음 내용을 포함해주세요:

1. 체형 분석
2. 퍼스널 컬러 추천
3. 어울리는 스타일 및 패션 아이템 추천
4. 피해야 할 스타일
5. 코디 팁

친절하고 전문적인 톤으로 작성해주세요.`

// placeholderReport stands in when the model response carries no readable
// report text. Not a hard error: the user still paid for an answer.
const placeholderReport = "보고서를 생성할 수 없습니다."

const hairstylePrompt = "Create a 3x3 grid showing nine different hairstyle variations for the person in this photo. " +
	"Preserve the person's facial identity exactly in every variation. " +
	"Vary hair length, color, and texture across the nine styles."

var occasionLabels = map[string]string{
	submission.OccasionDaily:  "일상",
	submission.OccasionOffice: "오피스",
	submission.OccasionDate:   "데이트",
	submission.OccasionParty:  "파티",
}

// userText renders the numeric and enumerated fields as the natural-language
// message sent alongside the photo. The minimal flow sends metrics only; the
// full flow appends the style preferences.
func userText(sub submission.Submission, full bool) string {
	var b strings.Builder

	if sub.HasMetrics() {
		b.WriteString("키 " + formatMetric(sub.HeightCm) + "cm, 몸무게 " + formatMetric(sub.WeightKg) + "kg")
	}

	if !full {
		return b.String()
	}

	if sub.Style != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("선호 스타일: " + sub.Style)
	}
	if sub.ColorPreference != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("선호 컬러: " + sub.ColorPreference)
	}

	occasions := sub.NormalizedOccasions()
	labels := make([]string, 0, len(occasions))
	for _, o := range occasions {
		if label, ok := occasionLabels[o]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, o)
		}
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("주요 상황: " + strings.Join(labels, ", "))

	return b.String()
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
