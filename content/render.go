package content

// Block is a rendered chapter block: either a TextBlock or an IllustrationBlock
type Block interface {
	Kind() Kind
	isBlock()
}

// TextBlock is a paragraph of narrative text
type TextBlock struct {
	Text string
}

// IllustrationBlock is an image with an optional caption. Position is the
// index of the block within its chapter and identifies the illustration.
type IllustrationBlock struct {
	ImageURL string
	Caption  string
	Position int
}

func (TextBlock) Kind() Kind         { return KindText }
func (IllustrationBlock) Kind() Kind { return KindIllustration }
func (TextBlock) isBlock()           {}
func (IllustrationBlock) isBlock()   {}

// Render classifies every item in order and returns one block per item
func Render(items []Item) []Block {
	blocks := make([]Block, 0, len(items))
	for i, item := range items {
		if Classify(item) == KindIllustration {
			ill := Extract(item)
			blocks = append(blocks, IllustrationBlock{
				ImageURL: ill.ImageURL,
				Caption:  ill.Caption,
				Position: i,
			})
			continue
		}
		blocks = append(blocks, TextBlock{Text: item.dataText()})
	}
	return blocks
}

// Illustrations returns the illustration blocks of blocks in reading order
func Illustrations(blocks []Block) []IllustrationBlock {
	var out []IllustrationBlock
	for _, b := range blocks {
		if ill, ok := b.(IllustrationBlock); ok {
			out = append(out, ill)
		}
	}
	return out
}
