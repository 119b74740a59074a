package form

// Option 下拉選單的一個選項
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options 表單的所有選項清單
type Options struct {
	Mixers     []Option `json:"mixers"`
	Spirits    []Option `json:"spirits"`
	Moments    []Option `json:"moments"`
	Complexity []Option `json:"complexity"`
	Tools      []Option `json:"tools"`
}

// 上限與表單驗證一致
const (
	MaxMixers  = 3
	MaxSpirits = 3
	MaxTools   = 5
)

// Catalog 回傳表單選項
func Catalog() Options {
	return Options{
		Mixers: []Option{
			{"apple juice", "Apple Juice"},
			{"blueberry juice", "Blueberry Juice"},
			{"lemon juice", "Lemon Juice"},
			{"orange juice", "Orange Juice"},
			{"pineapple juice", "Pineapple Juice"},
			{"strawberry juice", "Strawberry Juice"},
			{"water", "Water"},
			{"soda", "Soda"},
			{"soda water", "Soda Water"},
			{"tonic", "Tonic"},
			{"tea", "Tea"},
		},
		Spirits: []Option{
			{"gin", "Gin"},
			{"vodka", "Vodka"},
			{"rum", "Rum"},
			{"tequila", "Tequila"},
			{"whisky", "Whisky"},
			{"bourbon", "Bourbon"},
			{"brandy", "Brandy"},
			// 品牌
			{"Bacardi", "Bacardi"},
			{"Beefeater", "Beefeater"},
			{"Ciroc", "Ciroc"},
			{"Crown Royal", "Crown Royal"},
			{"Glenfiddich", "Glenfiddich"},
			{"Havana Club", "Havana Club"},
			{"Jack Daniel's", "Jack Daniel's"},
			{"Jim Beam", "Jim Beam"},
			{"JW Red Label", "JW Red Label"},
			{"Tanqueray", "Tanqueray"},
		},
		Moments: []Option{
			{"pool party", "Pool party"},
			{"birthday party", "Birthday party"},
			{"wedding", "Wedding"},
			{"night club", "Night club"},
			{"cocktail bar", "Cocktail bar"},
			{"relaxing at home", "Relaxing at home"},
			{"at the beach", "At the beach"},
		},
		Complexity: []Option{
			{"easy", "Easy"},
			{"medium", "Medium"},
			{"hard", "Hard"},
		},
		Tools: []Option{
			{"glass", "Glass"},
			{"jigger", "Jigger"},
			{"muddler", "Muddler"},
			{"strainer", "Strainer"},
			{"twisted spoon", "Twisted Spoon"},
			{"ice filter", "Ice Filter"},
		},
	}
}
