// Package kana holds the embedded kana dataset: every glyph the quiz can
// present, with its accepted romanizations. The dataset is the immutable
// item catalog that scheduling records reference by glyph.
package kana

import (
	"errors"
	"fmt"

	"github.com/mkondo/kanaquiz/internal/domain"
)

// ErrKanaNotFound is returned when a glyph referenced by a scheduling record
// does not exist in the dataset. This indicates corrupted data, not a
// recoverable condition.
var ErrKanaNotFound = errors.New("kana not found in dataset")

// row is one syllable of the gojūon chart: the hiragana and katakana glyphs
// share their romanizations, so each row expands into two dataset entries.
type row struct {
	hira   string
	kata   string
	romaji []string
	class  domain.Class
}

func r(hira, kata string, class domain.Class, romaji ...string) row {
	return row{hira: hira, kata: kata, romaji: romaji, class: class}
}

// chart lists every syllable once. The first romanization is the canonical
// (Hepburn) reading shown in feedback; later entries are accepted variants
// (Kunrei-shiki and common keyboard spellings).
var chart = []row{
	// Seion
	r("あ", "ア", domain.ClassSeion, "a"),
	r("い", "イ", domain.ClassSeion, "i"),
	r("う", "ウ", domain.ClassSeion, "u"),
	r("え", "エ", domain.ClassSeion, "e"),
	r("お", "オ", domain.ClassSeion, "o"),
	r("か", "カ", domain.ClassSeion, "ka"),
	r("き", "キ", domain.ClassSeion, "ki"),
	r("く", "ク", domain.ClassSeion, "ku"),
	r("け", "ケ", domain.ClassSeion, "ke"),
	r("こ", "コ", domain.ClassSeion, "ko"),
	r("さ", "サ", domain.ClassSeion, "sa"),
	r("し", "シ", domain.ClassSeion, "shi", "si"),
	r("す", "ス", domain.ClassSeion, "su"),
	r("せ", "セ", domain.ClassSeion, "se"),
	r("そ", "ソ", domain.ClassSeion, "so"),
	r("た", "タ", domain.ClassSeion, "ta"),
	r("ち", "チ", domain.ClassSeion, "chi", "ti"),
	r("つ", "ツ", domain.ClassSeion, "tsu", "tu"),
	r("て", "テ", domain.ClassSeion, "te"),
	r("と", "ト", domain.ClassSeion, "to"),
	r("な", "ナ", domain.ClassSeion, "na"),
	r("に", "ニ", domain.ClassSeion, "ni"),
	r("ぬ", "ヌ", domain.ClassSeion, "nu"),
	r("ね", "ネ", domain.ClassSeion, "ne"),
	r("の", "ノ", domain.ClassSeion, "no"),
	r("は", "ハ", domain.ClassSeion, "ha"),
	r("ひ", "ヒ", domain.ClassSeion, "hi"),
	r("ふ", "フ", domain.ClassSeion, "fu", "hu"),
	r("へ", "ヘ", domain.ClassSeion, "he"),
	r("ほ", "ホ", domain.ClassSeion, "ho"),
	r("ま", "マ", domain.ClassSeion, "ma"),
	r("み", "ミ", domain.ClassSeion, "mi"),
	r("む", "ム", domain.ClassSeion, "mu"),
	r("め", "メ", domain.ClassSeion, "me"),
	r("も", "モ", domain.ClassSeion, "mo"),
	r("や", "ヤ", domain.ClassSeion, "ya"),
	r("ゆ", "ユ", domain.ClassSeion, "yu"),
	r("よ", "ヨ", domain.ClassSeion, "yo"),
	r("ら", "ラ", domain.ClassSeion, "ra"),
	r("り", "リ", domain.ClassSeion, "ri"),
	r("る", "ル", domain.ClassSeion, "ru"),
	r("れ", "レ", domain.ClassSeion, "re"),
	r("ろ", "ロ", domain.ClassSeion, "ro"),
	r("わ", "ワ", domain.ClassSeion, "wa"),
	r("を", "ヲ", domain.ClassSeion, "wo", "o"),
	r("ん", "ン", domain.ClassSeion, "n", "nn"),

	// Dakuon
	r("が", "ガ", domain.ClassDakuon, "ga"),
	r("ぎ", "ギ", domain.ClassDakuon, "gi"),
	r("ぐ", "グ", domain.ClassDakuon, "gu"),
	r("げ", "ゲ", domain.ClassDakuon, "ge"),
	r("ご", "ゴ", domain.ClassDakuon, "go"),
	r("ざ", "ザ", domain.ClassDakuon, "za"),
	r("じ", "ジ", domain.ClassDakuon, "ji", "zi"),
	r("ず", "ズ", domain.ClassDakuon, "zu"),
	r("ぜ", "ゼ", domain.ClassDakuon, "ze"),
	r("ぞ", "ゾ", domain.ClassDakuon, "zo"),
	r("だ", "ダ", domain.ClassDakuon, "da"),
	r("ぢ", "ヂ", domain.ClassDakuon, "ji", "di"),
	r("づ", "ヅ", domain.ClassDakuon, "zu", "du"),
	r("で", "デ", domain.ClassDakuon, "de"),
	r("ど", "ド", domain.ClassDakuon, "do"),
	r("ば", "バ", domain.ClassDakuon, "ba"),
	r("び", "ビ", domain.ClassDakuon, "bi"),
	r("ぶ", "ブ", domain.ClassDakuon, "bu"),
	r("べ", "ベ", domain.ClassDakuon, "be"),
	r("ぼ", "ボ", domain.ClassDakuon, "bo"),

	// Handakuon
	r("ぱ", "パ", domain.ClassHandakuon, "pa"),
	r("ぴ", "ピ", domain.ClassHandakuon, "pi"),
	r("ぷ", "プ", domain.ClassHandakuon, "pu"),
	r("ぺ", "ペ", domain.ClassHandakuon, "pe"),
	r("ぽ", "ポ", domain.ClassHandakuon, "po"),

	// Yōon
	r("きゃ", "キャ", domain.ClassYoon, "kya"),
	r("きゅ", "キュ", domain.ClassYoon, "kyu"),
	r("きょ", "キョ", domain.ClassYoon, "kyo"),
	r("しゃ", "シャ", domain.ClassYoon, "sha", "sya"),
	r("しゅ", "シュ", domain.ClassYoon, "shu", "syu"),
	r("しょ", "ショ", domain.ClassYoon, "sho", "syo"),
	r("ちゃ", "チャ", domain.ClassYoon, "cha", "tya"),
	r("ちゅ", "チュ", domain.ClassYoon, "chu", "tyu"),
	r("ちょ", "チョ", domain.ClassYoon, "cho", "tyo"),
	r("にゃ", "ニャ", domain.ClassYoon, "nya"),
	r("にゅ", "ニュ", domain.ClassYoon, "nyu"),
	r("にょ", "ニョ", domain.ClassYoon, "nyo"),
	r("ひゃ", "ヒャ", domain.ClassYoon, "hya"),
	r("ひゅ", "ヒュ", domain.ClassYoon, "hyu"),
	r("ひょ", "ヒョ", domain.ClassYoon, "hyo"),
	r("みゃ", "ミャ", domain.ClassYoon, "mya"),
	r("みゅ", "ミュ", domain.ClassYoon, "myu"),
	r("みょ", "ミョ", domain.ClassYoon, "myo"),
	r("りゃ", "リャ", domain.ClassYoon, "rya"),
	r("りゅ", "リュ", domain.ClassYoon, "ryu"),
	r("りょ", "リョ", domain.ClassYoon, "ryo"),
	r("ぎゃ", "ギャ", domain.ClassYoon, "gya"),
	r("ぎゅ", "ギュ", domain.ClassYoon, "gyu"),
	r("ぎょ", "ギョ", domain.ClassYoon, "gyo"),
	r("じゃ", "ジャ", domain.ClassYoon, "ja", "jya", "zya"),
	r("じゅ", "ジュ", domain.ClassYoon, "ju", "jyu", "zyu"),
	r("じょ", "ジョ", domain.ClassYoon, "jo", "jyo", "zyo"),
	r("びゃ", "ビャ", domain.ClassYoon, "bya"),
	r("びゅ", "ビュ", domain.ClassYoon, "byu"),
	r("びょ", "ビョ", domain.ClassYoon, "byo"),
	r("ぴゃ", "ピャ", domain.ClassYoon, "pya"),
	r("ぴゅ", "ピュ", domain.ClassYoon, "pyu"),
	r("ぴょ", "ピョ", domain.ClassYoon, "pyo"),
}

// Dataset is an immutable, indexed view over the kana catalog.
type Dataset struct {
	all   []domain.Kana
	index map[string]*domain.Kana
}

// NewDataset builds the dataset from the embedded chart.
func NewDataset() *Dataset {
	all := make([]domain.Kana, 0, len(chart)*2)
	for _, row := range chart {
		all = append(all, domain.Kana{
			Char:   row.hira,
			Romaji: row.romaji,
			Script: domain.ScriptHiragana,
			Class:  row.class,
		})
		all = append(all, domain.Kana{
			Char:   row.kata,
			Romaji: row.romaji,
			Script: domain.ScriptKatakana,
			Class:  row.class,
		})
	}

	index := make(map[string]*domain.Kana, len(all))
	for i := range all {
		index[all[i].Char] = &all[i]
	}

	return &Dataset{all: all, index: index}
}

// Lookup returns the kana for the given glyph.
// A miss means a scheduling record references a glyph that does not exist in
// the catalog, which is a fatal data-integrity error for the caller.
func (d *Dataset) Lookup(char string) (*domain.Kana, error) {
	kana, ok := d.index[char]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKanaNotFound, char)
	}
	return kana, nil
}

// All returns every kana in chart order.
func (d *Dataset) All() []domain.Kana {
	out := make([]domain.Kana, len(d.all))
	copy(out, d.all)
	return out
}

// ByScript returns every kana of the given script in chart order.
func (d *Dataset) ByScript(script domain.Script) []domain.Kana {
	var out []domain.Kana
	for _, k := range d.all {
		if k.Script == script {
			out = append(out, k)
		}
	}
	return out
}

// Size returns the number of glyphs in the catalog.
func (d *Dataset) Size() int {
	return len(d.all)
}
