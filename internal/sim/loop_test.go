package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/physics"
)

type recordingObserver struct {
	frames []*Frame
}

func (r *recordingObserver) OnFrame(f *Frame) {
	r.frames = append(r.frames, f.Clone())
}

var _ = Describe("Loop", func() {
	var (
		loop *Loop
		obs  *recordingObserver
	)

	BeforeEach(func() {
		loop = New(DefaultOptions(800, 400))
		obs = &recordingObserver{}
		loop.AddObserver(obs)
	})

	Describe("lifecycle", func() {
		It("starts idle", func() {
			Expect(loop.Phase()).To(Equal(Idle))
		})

		It("runs after the first tick and stays running", func() {
			loop.Tick(100)
			Expect(loop.Phase()).To(Equal(Running))
			loop.Tick(116)
			Expect(loop.Phase()).To(Equal(Running))
		})

		It("reports a zero delta on the first frame and timestamp gaps after", func() {
			loop.Tick(100)
			loop.Tick(116.5)
			Expect(obs.frames).To(HaveLen(2))
			Expect(obs.frames[0].Delta).To(BeZero())
			Expect(obs.frames[1].Delta).To(BeNumerically("~", 16.5, 1e-9))
			Expect(obs.frames[1].Index).To(Equal(1))
		})
	})

	Describe("equilibrium", func() {
		It("keeps the dynamic points exactly on their targets", func() {
			f := loop.Tick(0)
			Expect(f.Points[P1].Pos).To(Equal(bezier.Pt(240, 120)))
			Expect(f.Points[P2].Pos).To(Equal(bezier.Pt(560, 280)))
			Expect(f.Points[P1].Vel.IsZero()).To(BeTrue())
			Expect(f.Contacts).To(BeZero())
		})
	})

	Describe("frame ordering", func() {
		It("retargets before stepping within the same tick", func() {
			loop.PointerMove(0, 200)
			f := loop.Tick(0)

			Expect(f.Points[P1].Target).To(Equal(bezier.Pt(0, 200)))
			// one step from rest toward x=0: v = -0.1*240 = -24
			Expect(f.Points[P1].Vel.X).To(BeNumerically("~", -24, 1e-9))
			Expect(f.Points[P1].Pos.X).To(BeNumerically("~", 216, 1e-9))
		})

		It("samples the curve from the stepped positions", func() {
			loop.PointerMove(100, 50)
			f := loop.Tick(0)
			p0, p1, p2, p3 := f.Positions()
			Expect(f.Curve[50]).To(Equal(bezier.Evaluate(0.5, p0, p1, p2, p3)))
		})

		It("leaves targets alone while the pointer is over the center", func() {
			loop.PointerMove(400, 10)
			f := loop.Tick(0)
			Expect(f.Influence).To(Equal([2]float64{0, 0}))
			Expect(f.Points[P1].Target).To(Equal(bezier.Pt(240, 120)))
			Expect(f.Points[P2].Target).To(Equal(bezier.Pt(560, 280)))
		})
	})

	Describe("pointer at the left edge", func() {
		It("gives the left point full influence and the right point none", func() {
			loop.SetMouseInfluence(1)
			loop.PointerMove(0, 100)
			f := loop.Tick(0)
			Expect(f.Influence[0]).To(Equal(1.0))
			Expect(f.Influence[1]).To(BeZero())
		})

		It("returns both targets to their defaults when the pointer leaves", func() {
			loop.PointerMove(0, 100)
			loop.Tick(0)
			loop.PointerMove(800, 100)
			loop.Tick(16)
			loop.PointerLeave()
			f := loop.Tick(32)
			Expect(f.Points[P1].Target).To(Equal(bezier.Pt(240, 120)))
			Expect(f.Points[P2].Target).To(Equal(bezier.Pt(560, 280)))
			Expect(f.Pointer.Active).To(BeFalse())
		})
	})

	Describe("display toggles", func() {
		It("carries the toggles on each frame", func() {
			loop.ToggleTangents()
			loop.ToggleControlPoints()
			f := loop.Tick(0)
			Expect(f.Display.Tangents).To(BeFalse())
			Expect(f.Display.ControlLines).To(BeTrue())
			Expect(f.Display.ControlPoints).To(BeFalse())
		})
	})

	Describe("integrators", func() {
		It("can be swapped while running", func() {
			loop.PointerMove(100, 100)
			loop.Tick(0)
			loop.SetIntegrator(physics.NewFixedStep(100))
			f := loop.Tick(5)
			before := f.Points[P1].Pos
			f = loop.Tick(8)
			Expect(f.Points[P1].Pos).To(Equal(before))
			f = loop.Tick(15)
			Expect(f.Points[P1].Pos).NotTo(Equal(before))
		})
	})
})
