package service

import "fmt"

// quickFixes holds the emergency-measure instructions shown to the
// customer while they wait for the repair visit.  Keys match the issue
// type codes in model.IssueTypeLabels.
var quickFixes = map[string]string{
	"sink_leak": "1. 싱크대 아래쪽에 있는 지수밸브(수도 잠금 장치)를 시계 방향으로 돌려서 잠가주세요.\n" +
		"2. 누수 부위 아래에 양동이나 대야를 받쳐 물을 받아주세요.\n" +
		"3. 배관 주변을 수건으로 감싸 물이 튀는 것을 방지해주세요.\n" +
		"4. 주변에 전기 콘센트가 있다면 물이 닿지 않도록 주의해주세요.",
	"toilet_clog": "1. 물을 추가로 내리지 마세요. 넘칠 수 있습니다.\n" +
		"2. 고무 압축기(뚫어뻥)가 있다면 배수구에 밀착시켜 천천히 눌렀다 당겨주세요.\n" +
		"3. 이물질이 보이면 고무장갑을 끼고 제거해주세요.\n" +
		"4. 바닥에 물이 넘친 경우 걸레로 닦고 환기해주세요.",
	"boiler_failure": "1. 보일러 전원 플러그가 꽂혀 있는지, 차단기가 내려가 있지 않은지 확인해주세요.\n" +
		"2. 보일러 하단의 수압 게이지가 1~2 사이인지 확인하고, 낮다면 보충수 밸브를 열어주세요.\n" +
		"3. 에러 코드가 표시되면 코드를 메모해주세요. 기사 방문 시 도움이 됩니다.\n" +
		"4. 가스 냄새가 나면 즉시 밸브를 잠그고 환기한 뒤 가스 공급사에 연락해주세요.",
	"door_lock": "1. 건전지 커버를 열어 건전지를 새것으로 교체해보세요.\n" +
		"2. 터치패드가 반응하지 않으면 외부 비상 전원 단자에 9V 건전지를 대고 다시 시도해주세요.\n" +
		"3. 비상키가 있다면 비상키로 개폐해주세요.\n" +
		"4. 무리하게 문을 열려고 하면 도어록이 파손될 수 있으니 주의해주세요.",
	"mold": "1. 곰팡이 부위를 마른 걸레로 문지르지 마세요. 포자가 퍼질 수 있습니다.\n" +
		"2. 환기를 자주 시켜 실내 습도를 낮춰주세요.\n" +
		"3. 가구나 짐을 벽에서 10cm 이상 띄워 공기가 통하게 해주세요.\n" +
		"4. 결로가 심한 창문은 물기를 수시로 닦아주세요.",
}

// QuickFix returns the emergency instructions for an issue type.  The
// second return is false for unsupported types; the lookup touches no
// store and has no side effects.
func QuickFix(issueType string) (string, bool) {
	instructions, ok := quickFixes[issueType]
	return instructions, ok
}

// QuickFixUnsupportedMessage is the user-visible error for unknown
// issue types.
func QuickFixUnsupportedMessage(issueType string) string {
	return fmt.Sprintf("지원하지 않는 문제 유형입니다: %s", issueType)
}
